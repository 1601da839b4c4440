package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ManaCost represents a parsed mana cost.
type ManaCost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	X         bool // X in cost (e.g., {X}{R})
	Hybrid    int  // number of hybrid symbols such as {W/U} or {2/B}
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string (e.g., "{1}{G}", "{2}{R}{R}", "{X}{R}").
// Supports:
// - Generic: {1}, {2}, {3}, etc.
// - Colored: {W}, {U}, {B}, {R}, {G}, {C}
// - X costs: {X}
// - Hybrid: {W/U}, {2/B}, etc.
func ParseCost(costStr string) (*ManaCost, error) {
	cost := &ManaCost{}
	if strings.TrimSpace(costStr) == "" {
		return cost, nil
	}

	for _, match := range symbolPattern.FindAllStringSubmatch(costStr, -1) {
		if len(match) < 2 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))

		switch symbol {
		case "X":
			cost.X = true
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		case "C":
			cost.Colorless++
		default:
			if num, err := strconv.Atoi(symbol); err == nil {
				cost.Generic += num
			} else if strings.Contains(symbol, "/") {
				cost.Hybrid++
			} else {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
		}
	}

	return cost, nil
}

// Fixed returns the amount of mana the cost demands excluding X. Generic
// symbols count their number; every other symbol counts one.
func (mc *ManaCost) Fixed() int {
	if mc == nil {
		return 0
	}
	return mc.Generic + mc.White + mc.Blue + mc.Black + mc.Red + mc.Green + mc.Colorless + mc.Hybrid
}

// XMaximum returns the largest X payable from totalAvailable mana for the
// given cost string. The result is never negative.
func XMaximum(totalAvailable int, costStr string) (int, error) {
	cost, err := ParseCost(costStr)
	if err != nil {
		return 0, err
	}
	max := totalAvailable - cost.Fixed()
	if max < 0 {
		return 0, nil
	}
	return max, nil
}
