package dataset

import (
	"errors"
	"sync"
	"testing"

	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EmptyByDefault(t *testing.T) {
	s := NewStore()
	_, err := s.Current()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestStore_ReplaceSwapsWholeCollection(t *testing.T) {
	s := NewStore()
	first := s.Replace("a.csv", []records.RawRow{{"crop": "Rice"}, {"crop": "Wheat"}})
	require.Equal(t, 2, first.Len())

	second := s.Replace("b.csv", []records.RawRow{{"crop": "Maize"}})
	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, cur.Len())
	assert.Equal(t, "Maize", cur.Records[0].Crop)
	// the earlier snapshot is untouched
	assert.Equal(t, 2, first.Len())
	assert.Equal(t, "b.csv", cur.Source)
	assert.Equal(t, 1, cur.RawRows)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Replace("a.csv", []records.RawRow{{}})
	s.Clear()
	_, err := s.Current()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_ConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	s := NewStore()
	rowsOf := func(n int) []records.RawRow {
		out := make([]records.RawRow, n)
		for i := range out {
			out[i] = records.RawRow{"crop": "C", "area": n}
		}
		return out
	}
	s.Replace("init", rowsOf(1))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap, err := s.Current()
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				// every record in a snapshot carries that snapshot's size as area
				for _, r := range snap.Records {
					if int(r.Area) != snap.Len() {
						t.Errorf("mixed snapshot: area %v in snapshot of %d", r.Area, snap.Len())
						return
					}
				}
			}
		}()
	}
	for n := 2; n < 40; n++ {
		s.Replace("upload", rowsOf(n))
	}
	wg.Wait()
}

func TestSnapshot_NilLen(t *testing.T) {
	var s *Snapshot
	assert.Equal(t, 0, s.Len())
}
