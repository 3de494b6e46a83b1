package huffman

import (
	"fmt"
	"maps"
	"testing"
)

func makeTestLines() []string {
	return []string{
		"Hello, world!",
		"hello, folks!",
		"hello, world!",
		"hello there!",
	}
}

func TestCount_Chars(t *testing.T) {
	input := []string{"this is an epic chap", "you can not escape getting rusty"}
	counts := Count(input, Chars)

	type testRow struct {
		sym    rune
		expect uint64
	}

	testData := [...]testRow{
		{sym: ' ', expect: 9},
		{sym: 'a', expect: 4},
		{sym: 'e', expect: 4},
		{sym: 'g', expect: 2},
		{sym: 'z', expect: 0},
	}
	for _, row := range testData {
		t.Run(string(row.sym), func(t *testing.T) {
			if actual := counts[row.sym]; actual != row.expect {
				t.Errorf("expected %d, got %d", row.expect, actual)
			}
		})
	}
}

func TestCount_Words(t *testing.T) {
	input := []string{"this is an epic rusty boy", "you can not escape\tgetting  rusty"}
	counts := WordFrequencies(input)

	expect := Frequencies[string]{
		"this": 1, "is": 1, "an": 1, "epic": 1, "rusty": 2, "boy": 1,
		"you": 1, "can": 1, "not": 1, "escape": 1, "getting": 1,
	}
	if !maps.Equal(expect, counts) {
		t.Errorf("wrong counts:\n\texpect: %v\n\tactual: %v", expect, counts)
	}
}

func TestCount_Empty(t *testing.T) {
	counts := CharFrequencies(nil)
	if counts == nil {
		t.Fatalf("expected an empty map, got nil")
	}
	if len(counts) != 0 {
		t.Errorf("expected an empty map, got %v", counts)
	}

	counts = CharFrequencies([]string{"", ""})
	if len(counts) != 0 {
		t.Errorf("expected an empty map, got %v", counts)
	}
}

func TestCount_MostFrequent(t *testing.T) {
	counts := CharFrequencies(makeTestLines())

	var best rune
	var bestCount uint64
	for sym, n := range counts {
		if n > bestCount {
			best, bestCount = sym, n
		}
	}
	if best != 'l' || bestCount != 11 {
		t.Errorf("expected 'l' x 11, got %q x %d", best, bestCount)
	}
	if total := counts.Total(); total != 51 {
		t.Errorf("expected 51 characters, got %d", total)
	}
}

func TestCount_Partitioning(t *testing.T) {
	var lines []string
	for i := 0; i < 500; i++ {
		lines = append(lines, fmt.Sprintf("line %d: %x %s", i, i*7919, makeTestLines()[i%4]))
	}

	expect := Count(lines, Chars, WithWorkers(1))
	for _, workers := range []int{2, 3, 7, 16, 1000} {
		t.Run(fmt.Sprint(workers), func(t *testing.T) {
			actual := Count(lines, Chars, WithWorkers(workers))
			if !maps.Equal(expect, actual) {
				t.Errorf("counts differ from the single-worker run")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	a := Frequencies[string]{"x": 1, "y": 2}
	b := Frequencies[string]{"y": 3, "z": 4, "w": 5}

	ab := Merge(a, b)
	ba := Merge(b, a)
	expect := Frequencies[string]{"x": 1, "y": 5, "z": 4, "w": 5}
	if !maps.Equal(expect, ab) || !maps.Equal(expect, ba) {
		t.Errorf("wrong merge:\n\texpect: %v\n\tactual: %v, %v", expect, ab, ba)
	}
	if a["y"] != 2 || b["y"] != 3 {
		t.Errorf("Merge modified its arguments")
	}

	if empty := Merge[string](nil, nil); empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty map, got %v", empty)
	}
}

func TestSplitRanges(t *testing.T) {
	type testRow struct {
		n, k   int
		expect [][2]int
	}

	testData := [...]testRow{
		{n: 0, k: 4, expect: [][2]int{}},
		{n: 3, k: 8, expect: [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{n: 10, k: 3, expect: [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{n: 5, k: 0, expect: [][2]int{{0, 5}}},
	}
	for _, row := range testData {
		t.Run(fmt.Sprintf("%d/%d", row.n, row.k), func(t *testing.T) {
			actual := splitRanges(row.n, row.k)
			if fmt.Sprint(actual) != fmt.Sprint(row.expect) {
				t.Errorf("wrong output:\n\texpect: %v\n\tactual: %v", row.expect, actual)
			}
		})
	}
}
