// Package parser reads delimited-text uploads into generic row tables
// and machine parameter sets. It deliberately knows nothing about
// hydraulics; the reconstruction pipeline consumes its output as plain
// positional cells.
package parser

import (
	"bufio"
	"io"
	"strings"
)

// candidate delimiters, checked in order of preference on ties.
var delimiters = []rune{',', ';', '\t'}

// sniffLines is how many non-blank lines DetectDelimiter inspects.
const sniffLines = 10

// DetectDelimiter picks the delimiter that occurs most often across the
// leading non-blank lines. Comma wins ties; a file with no delimiter at
// all is treated as comma-separated single-column data.
func DetectDelimiter(lines []string) rune {
	counts := make(map[rune]int, len(delimiters))
	seen := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range delimiters {
			counts[d] += strings.Count(line, string(d))
		}
		seen++
		if seen >= sniffLines {
			break
		}
	}

	best := delimiters[0]
	for _, d := range delimiters[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

// ReadTable reads delimited text into an ordered table of trimmed string
// cells. Blank lines are removed; nothing else is interpreted.
func ReadTable(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	delim := DetectDelimiter(lines)

	table := make([][]string, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, string(delim))
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		table = append(table, cells)
	}
	return table, nil
}
