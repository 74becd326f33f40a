package topology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadPoints parses whitespace-separated integer pairs, one per line.
// Every line must hold exactly two integer tokens; anything else, including a
// blank line, fails with ErrMalformedLine naming the 1-based line number.
// Complexity: O(bytes).
func ReadPoints(r io.Reader) ([]Point, error) {
	var points []Point
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d",
				ErrMalformedLine, line, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: x %q is not an integer",
				ErrMalformedLine, line, fields[0])
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: y %q is not an integer",
				ErrMalformedLine, line, fields[1])
		}
		points = append(points, Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("topology: read coordinates: %w", err)
	}
	return points, nil
}

// WritePoints writes points in the format accepted by ReadPoints.
func WritePoints(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintln(bw, p.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseNetworkName extracts the node count from a network file name of the
// form "<size>-<index>" (e.g. "30-1"). ok is false when the name carries no
// size prefix.
func ParseNetworkName(name string) (size int, ok bool) {
	base := filepath.Base(name)
	prefix, _, found := strings.Cut(base, "-")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// LoadFile reads a coordinate file and builds its Topology. When the file name
// carries a size prefix (see ParseNetworkName) and no explicit
// WithExpectedSize is passed, the prefix is enforced as the expected size.
func LoadFile(path string, opts ...Option) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topology: open network file: %w", err)
	}
	defer f.Close()

	points, err := ReadPoints(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTopology, filepath.Base(path), err)
	}
	if size, ok := ParseNetworkName(path); ok {
		// prepend so a caller-supplied WithExpectedSize still wins
		opts = append([]Option{WithExpectedSize(size)}, opts...)
	}
	return Build(points, opts...)
}
