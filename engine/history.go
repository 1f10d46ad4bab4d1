// Position history for repetition detection

package engine

import "maps"

// Map: zobrist -> number of times the position has occurred on the current line
type HistoryTableT map[uint64]int

// Record a position and return how often it has now occurred
func (ht HistoryTableT) Add(zobrist uint64) int {
	ht[zobrist]++
	return ht[zobrist]
}

// Take back one occurrence. Entries at zero are deleted so the map only holds the current line.
func (ht HistoryTableT) Remove(zobrist uint64) int {
	count := ht[zobrist] - 1
	if count > 0 {
		ht[zobrist] = count
	} else {
		delete(ht, zobrist)
	}
	return count
}

func (ht HistoryTableT) Count(zobrist uint64) int {
	return ht[zobrist]
}

func (ht HistoryTableT) Clone() HistoryTableT {
	return maps.Clone(ht)
}
