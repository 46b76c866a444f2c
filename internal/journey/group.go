package journey

import "github.com/Lesmash/spotify-playlist-creator/internal/models"

// Strategy names the grouping algorithm applied to a response.
type Strategy int

const (
	ServerLabeled Strategy = iota
	Positional
)

func (s Strategy) String() string {
	switch s {
	case ServerLabeled:
		return "server_labeled"
	case Positional:
		return "positional"
	default:
		return ""
	}
}

// Group partitions tracks with [GroupByMood] when any track carries a mood, and with [GroupPositional] otherwise.
func Group(tracks []models.Track) ([]models.MoodBucket, Strategy) {
	for _, t := range tracks {
		if t.HasMood() {
			return GroupByMood(tracks), ServerLabeled
		}
	}
	return GroupPositional(tracks), Positional
}

// GroupByMood files every track under its lowercased mood, in first-appearance order of each key.
func GroupByMood(tracks []models.Track) []models.MoodBucket {
	buckets := []models.MoodBucket{}
	index := map[string]int{}

	for _, t := range tracks {
		key := NormalizeKey(t.Mood)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, models.MoodBucket{Key: key, Label: Label(key)})
		}
		buckets[i].Tracks = append(buckets[i].Tracks, t)
	}

	return buckets
}

// GroupPositional cuts tracks into contiguous slices of ceil(n/5) and labels them with [PositionalOrder].
//
// Slices that would be empty are omitted, so short inputs yield fewer than five buckets.
func GroupPositional(tracks []models.Track) []models.MoodBucket {
	buckets := []models.MoodBucket{}
	n := len(tracks)
	if n == 0 {
		return buckets
	}

	size := (n + len(PositionalOrder) - 1) / len(PositionalOrder)
	for i, key := range PositionalOrder {
		start := i * size
		if start >= n {
			break
		}
		end := min(start+size, n)

		slice := make([]models.Track, end-start)
		copy(slice, tracks[start:end])
		buckets = append(buckets, models.MoodBucket{Key: key, Label: Label(key), Tracks: slice})
	}

	return buckets
}
