package service

import (
	"fmt"
	"math"

	"github.com/lshigami/ieltsprep/internal/registry"
)

// BandScale is the raw score every table is keyed on. Tracks with a
// different total are scaled onto it before lookup.
const BandScale = 40.0

type bandStep struct {
	minRaw int
	band   float64
}

// Standard IELTS conversion tables, highest threshold first.
var (
	listeningBands = []bandStep{
		{39, 9}, {37, 8.5}, {35, 8}, {32, 7.5}, {30, 7}, {26, 6.5}, {23, 6}, {18, 5.5},
		{16, 5}, {13, 4.5}, {10, 4}, {8, 3.5}, {6, 3}, {4, 2.5}, {3, 2}, {1, 1}, {0, 0},
	}
	academicReadingBands = []bandStep{
		{39, 9}, {37, 8.5}, {35, 8}, {33, 7.5}, {30, 7}, {27, 6.5}, {23, 6}, {19, 5.5},
		{15, 5}, {13, 4.5}, {10, 4}, {8, 3.5}, {6, 3}, {4, 2.5}, {3, 2}, {1, 1}, {0, 0},
	}
)

// BandConverterService maps listening and reading raw scores onto the 0-9
// band scale. Writing bands come from manual rubrics instead.
type BandConverterService interface {
	ConvertToBand(testType string, rawScore, maxScore float64) (float64, error)
}

type bandConverterServiceImpl struct{}

func NewBandConverterService() BandConverterService {
	return &bandConverterServiceImpl{}
}

func (s *bandConverterServiceImpl) ConvertToBand(testType string, rawScore, maxScore float64) (float64, error) {
	var table []bandStep
	switch registry.Skill(testType) {
	case registry.SkillListening:
		table = listeningBands
	case registry.SkillReading:
		table = academicReadingBands
	default:
		return 0, fmt.Errorf("no raw score conversion for test type %q", testType)
	}
	if maxScore <= 0 {
		return 0, fmt.Errorf("max score must be positive, got %.2f", maxScore)
	}
	if rawScore < 0 || rawScore > maxScore {
		return 0, fmt.Errorf("raw score %.2f is out of valid range (0-%.2f)", rawScore, maxScore)
	}

	// Half points are floored so a 29.5/40 does not reach the 30 threshold.
	scaled := int(math.Floor(rawScore/maxScore*BandScale + 1e-9))
	for _, step := range table {
		if scaled >= step.minRaw {
			return step.band, nil
		}
	}
	return 0, nil
}
