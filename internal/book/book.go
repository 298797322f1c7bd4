// Package book implements an opening book keyed by the Zobrist hash of
// a position.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/goplay/internal/board"
)

// Entry represents a single book entry. Games and Wins accumulate the
// finished-game results recorded for the move, from the mover's side.
type Entry struct {
	Point  board.Point
	Weight uint16
	Games  uint32
	Wins   uint16
}

// Book maps position hashes to weighted candidate moves. The Zobrist
// table uses a fixed seed, so hashes saved by one process resolve in
// another.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
	}
}

// Add records a candidate move for the given position hash.
func (b *Book) Add(hash uint64, p board.Point, weight uint16) {
	b.entries[hash] = append(b.entries[hash], Entry{Point: p, Weight: weight})
}

// Record folds one finished-game observation of the move into the
// book: the move played from the position, and whether the mover went
// on to win. A move not yet in the book is added with a unit weight.
func (b *Book) Record(hash uint64, p board.Point, won bool) {
	entries := b.entries[hash]
	for i := range entries {
		if entries[i].Point != p {
			continue
		}
		entries[i].Games++
		if won && entries[i].Wins < ^uint16(0) {
			entries[i].Wins++
		}
		return
	}

	e := Entry{Point: p, Weight: 1, Games: 1}
	if won {
		e.Wins = 1
	}
	b.entries[hash] = append(b.entries[hash], e)
}

// Load loads a book from a file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader loads a book from a reader.
//
// Entry format, big-endian:
//
//	8 bytes: position hash
//	2 bytes: point index
//	2 bytes: weight
//	4 bytes: games recorded
//	2 bytes: wins recorded
func LoadReader(r io.Reader) (*Book, error) {
	book := New()

	var entry [18]byte
	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		hash := binary.BigEndian.Uint64(entry[0:8])
		point := board.Point(binary.BigEndian.Uint16(entry[8:10]))

		if int(point) >= board.PointMax {
			return nil, fmt.Errorf("book: point index %d out of range", point)
		}

		book.entries[hash] = append(book.entries[hash], Entry{
			Point:  point,
			Weight: binary.BigEndian.Uint16(entry[10:12]),
			Games:  binary.BigEndian.Uint32(entry[12:16]),
			Wins:   binary.BigEndian.Uint16(entry[16:18]),
		})
	}

	return book, nil
}

// Save writes the book to a file.
func (b *Book) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return b.WriteTo(file)
}

// WriteTo serializes every entry to the writer in the Load format.
func (b *Book) WriteTo(w io.Writer) error {
	// stable output: hashes ascending, entries by descending weight
	hashes := make([]uint64, 0, len(b.entries))
	for hash := range b.entries {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	var entry [18]byte
	for _, hash := range hashes {
		entries := b.sorted(hash)
		for _, e := range entries {
			binary.BigEndian.PutUint64(entry[0:8], hash)
			binary.BigEndian.PutUint16(entry[8:10], uint16(e.Point))
			binary.BigEndian.PutUint16(entry[10:12], e.Weight)
			binary.BigEndian.PutUint32(entry[12:16], e.Games)
			binary.BigEndian.PutUint16(entry[16:18], e.Wins)

			if _, err := w.Write(entry[:]); err != nil {
				return err
			}
		}
	}

	return nil
}

// Probe returns all book moves for the position hash, sorted by weight
// (highest first).
func (b *Book) Probe(hash uint64) []Entry {
	if b == nil {
		return nil
	}
	return b.sorted(hash)
}

// sorted returns a weight-ordered copy of the entries for hash.
func (b *Book) sorted(hash uint64) []Entry {
	entries, ok := b.entries[hash]
	if !ok {
		return nil
	}

	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})

	return result
}

// PickMove returns a move for the position using weighted random
// selection, or false if the position is not in the book.
func (b *Book) PickMove(hash uint64, rng *rand.Rand) (board.Point, bool) {
	if b == nil {
		return board.NoPoint, false
	}

	entries := b.sorted(hash)
	if len(entries) == 0 {
		return board.NoPoint, false
	}

	totalWeight := uint32(0)
	for _, e := range entries {
		totalWeight += uint32(e.Weight)
	}
	if totalWeight == 0 {
		// all weights are zero, just pick the first
		return entries[0].Point, true
	}

	r := rng.Uint32() % totalWeight
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.Point, true
		}
	}

	return entries[0].Point, true
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
