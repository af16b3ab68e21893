package testutil

import "sync"

// DefaultSeed is dealt when a SeedSequence is created without seeds.
const DefaultSeed uint64 = 1

// SeedSequence hands out a fixed list of game seeds, repeating the last
// one once the list is used up. Its Next method fits
// engine.WithSeedSource.
type SeedSequence struct {
	mu    sync.Mutex
	seeds []uint64
	next  int
}

// NewSeedSequence creates a sequence of seeds.
func NewSeedSequence(seeds ...uint64) *SeedSequence {
	if len(seeds) == 0 {
		seeds = []uint64{DefaultSeed}
	}
	return &SeedSequence{seeds: seeds}
}

// Next returns the next seed.
func (s *SeedSequence) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed := s.seeds[min(s.next, len(s.seeds)-1)]
	s.next++
	return seed
}

// Dealt returns how many seeds were handed out.
func (s *SeedSequence) Dealt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
