// Package difficulty holds the data shared by the CEFR difficulty classifiers:
// the sentence datasets and the fixed table of CEFR levels.
package difficulty

import "github.com/kiteco/cefr/golib/errors"

// Levels lists the CEFR levels from easiest to hardest. A level's position is
// its class index.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// ErrUnknownLabel is returned for a difficulty string outside Levels.
var ErrUnknownLabel = errors.New("unknown difficulty label")

var levelIndex = func() map[string]int {
	m := make(map[string]int, len(Levels))
	for i, l := range Levels {
		m[l] = i
	}
	return m
}()

// Encode maps a CEFR level to its class index.
func Encode(level string) (int, error) {
	i, ok := levelIndex[level]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLabel, "%q", level)
	}
	return i, nil
}

// EncodeAll maps each level to its class index.
func EncodeAll(levels []string) ([]int, error) {
	out := make([]int, len(levels))
	for i, l := range levels {
		c, err := Encode(l)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = c
	}
	return out, nil
}

// Decode maps a class index back to its CEFR level.
func Decode(class int) (string, error) {
	if class < 0 || class >= len(Levels) {
		return "", errors.Errorf("class index %d out of range [0, %d)", class, len(Levels))
	}
	return Levels[class], nil
}
