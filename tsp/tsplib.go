package tsp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses a symmetric TSPLIB problem file (TYPE: TSP).
//
// Supported keywords: NAME, TYPE, COMMENT, DIMENSION, EDGE_WEIGHT_TYPE
// (EUC_2D, CEIL_2D, GEO, ATT, EXPLICIT), EDGE_WEIGHT_FORMAT (FULL_MATRIX,
// UPPER_ROW, LOWER_ROW, UPPER_DIAG_ROW, LOWER_DIAG_ROW) and the
// NODE_COORD_SECTION, EDGE_WEIGHT_SECTION, DISPLAY_DATA_SECTION and EOF
// markers. Other header keywords are ignored.
func Read(r io.Reader) (*Instance, error) {
	f, err := parse(r)
	if err != nil {
		return nil, err
	}
	if f.typ != "TSP" {
		return nil, fmt.Errorf("%w: TYPE %q", ErrUnsupported, f.typ)
	}

	var in *Instance
	switch {
	case f.weightType == WeightExplicit:
		if f.weights == nil {
			return nil, &ParseError{Line: f.lastLine, Msg: "missing EDGE_WEIGHT_SECTION"}
		}
		if in, err = NewInstance(f.name, f.weights); err != nil {
			return nil, err
		}
	case f.coords != nil:
		if in, err = FromCoords(f.name, f.weightType, f.coords); err != nil {
			return nil, err
		}
	default:
		return nil, &ParseError{Line: f.lastLine, Msg: "missing NODE_COORD_SECTION"}
	}
	in.Comment = f.comment

	return in, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Instance, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return Read(fh)
}

// ReadTour parses the first tour of a TSPLIB tour file (TYPE: TOUR) and
// returns it closed and 0-based.
func ReadTour(r io.Reader) ([]int, error) {
	f, err := parse(r)
	if err != nil {
		return nil, err
	}
	if len(f.tours) == 0 {
		return nil, &ParseError{Line: f.lastLine, Msg: "missing TOUR_SECTION"}
	}
	perm := f.tours[0]
	if f.dim > 0 && len(perm) != f.dim {
		return nil, ErrDimensionMismatch
	}

	return MakeTourFromPermutation(perm, perm[0])
}

// ReadTourFile opens path and parses it with ReadTour.
func ReadTourFile(path string) ([]int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return ReadTour(fh)
}

// tsplibFile is the raw content of a TSPLIB file.
type tsplibFile struct {
	name, typ, comment       string
	weightType, weightFormat string
	dim                      int
	coords                   [][2]float64
	weights                  [][]float64
	tours                    [][]int
	lastLine                 int
}

// lexer yields trimmed lines or whitespace separated tokens across lines.
type lexer struct {
	sc   *bufio.Scanner
	line int
	toks []string
}

func (l *lexer) errorf(format string, args ...any) error {
	return &ParseError{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) nextLine() (string, bool) {
	if !l.sc.Scan() {
		return "", false
	}
	l.line++
	return strings.TrimSpace(l.sc.Text()), true
}

func (l *lexer) token() (string, error) {
	for len(l.toks) == 0 {
		s, ok := l.nextLine()
		if !ok {
			if err := l.sc.Err(); err != nil {
				return "", err
			}
			return "", l.errorf("unexpected end of input")
		}
		l.toks = strings.Fields(s)
	}
	t := l.toks[0]
	l.toks = l.toks[1:]

	return t, nil
}

func (l *lexer) number() (float64, error) {
	t, err := l.token()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, l.errorf("bad number %q", t)
	}

	return x, nil
}

func (l *lexer) integer() (int, error) {
	t, err := l.token()
	if err != nil {
		return 0, err
	}
	x, err := strconv.Atoi(t)
	if err != nil {
		return 0, l.errorf("bad integer %q", t)
	}

	return x, nil
}

// endSection rejects trailing tokens on the last line of a section.
func (l *lexer) endSection() error {
	if len(l.toks) > 0 {
		return l.errorf("unexpected %q", l.toks[0])
	}
	return nil
}

func parse(r io.Reader) (*tsplibFile, error) {
	l := &lexer{sc: bufio.NewScanner(r)}
	f := &tsplibFile{}

	for {
		s, ok := l.nextLine()
		if !ok {
			break
		}
		if s == "" {
			continue
		}
		key, value := s, ""
		if i := strings.IndexByte(s, ':'); i >= 0 {
			key, value = s[:i], strings.TrimSpace(s[i+1:])
		}
		key = strings.ToUpper(strings.TrimSpace(key))

		var err error
		switch key {
		case "EOF":
			f.lastLine = l.line
			return f, nil
		case "NAME":
			f.name = value
		case "TYPE":
			f.typ = strings.ToUpper(value)
		case "COMMENT":
			if f.comment != "" {
				f.comment += "\n"
			}
			f.comment += value
		case "DIMENSION":
			if f.dim, err = strconv.Atoi(value); err != nil || f.dim < 1 {
				return nil, l.errorf("bad DIMENSION %q", value)
			}
		case "EDGE_WEIGHT_TYPE":
			f.weightType = strings.ToUpper(value)
			if _, ok := DistanceFor(f.weightType); !ok && f.weightType != WeightExplicit {
				return nil, fmt.Errorf("%w: EDGE_WEIGHT_TYPE %q", ErrUnsupported, value)
			}
		case "EDGE_WEIGHT_FORMAT":
			f.weightFormat = strings.ToUpper(value)
		case "NODE_COORD_SECTION":
			err = parseCoords(l, f)
		case "EDGE_WEIGHT_SECTION":
			err = parseWeights(l, f)
		case "DISPLAY_DATA_SECTION":
			err = skipDisplay(l, f)
		case "TOUR_SECTION":
			err = parseTours(l, f)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := l.sc.Err(); err != nil {
		return nil, err
	}
	f.lastLine = l.line

	return f, nil
}

func needDimension(l *lexer, f *tsplibFile) error {
	if f.dim == 0 {
		return l.errorf("section before DIMENSION")
	}
	return nil
}

func parseCoords(l *lexer, f *tsplibFile) error {
	if err := needDimension(l, f); err != nil {
		return err
	}
	f.coords = make([][2]float64, f.dim)
	seen := make([]bool, f.dim)
	for k := 0; k < f.dim; k++ {
		id, err := l.integer()
		if err != nil {
			return err
		}
		if id < 1 || id > f.dim || seen[id-1] {
			return l.errorf("bad node id %d", id)
		}
		seen[id-1] = true
		for c := 0; c < 2; c++ {
			if f.coords[id-1][c], err = l.number(); err != nil {
				return err
			}
		}
	}

	return l.endSection()
}

func parseWeights(l *lexer, f *tsplibFile) error {
	if err := needDimension(l, f); err != nil {
		return err
	}
	n := f.dim
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
	}
	set := func(i, j int) error {
		x, err := l.number()
		if err != nil {
			return err
		}
		w[i][j], w[j][i] = x, x
		return nil
	}

	var err error
	switch f.weightFormat {
	case "FULL_MATRIX":
		for i := 0; i < n && err == nil; i++ {
			for j := 0; j < n && err == nil; j++ {
				var x float64
				if x, err = l.number(); err == nil {
					w[i][j] = x
				}
			}
		}
	case "UPPER_ROW":
		for i := 0; i < n && err == nil; i++ {
			for j := i + 1; j < n && err == nil; j++ {
				err = set(i, j)
			}
		}
	case "LOWER_ROW":
		for i := 0; i < n && err == nil; i++ {
			for j := 0; j < i && err == nil; j++ {
				err = set(i, j)
			}
		}
	case "UPPER_DIAG_ROW":
		for i := 0; i < n && err == nil; i++ {
			for j := i; j < n && err == nil; j++ {
				err = set(i, j)
			}
		}
	case "LOWER_DIAG_ROW":
		for i := 0; i < n && err == nil; i++ {
			for j := 0; j <= i && err == nil; j++ {
				err = set(i, j)
			}
		}
	default:
		return fmt.Errorf("%w: EDGE_WEIGHT_FORMAT %q", ErrUnsupported, f.weightFormat)
	}
	if err != nil {
		return err
	}
	f.weights = w

	return l.endSection()
}

func skipDisplay(l *lexer, f *tsplibFile) error {
	if err := needDimension(l, f); err != nil {
		return err
	}
	for k := 0; k < 3*f.dim; k++ {
		if _, err := l.number(); err != nil {
			return err
		}
	}

	return l.endSection()
}

// parseTours reads -1 terminated tours until a keyword line follows.
func parseTours(l *lexer, f *tsplibFile) error {
	var tour []int
	for {
		id, err := l.integer()
		if err != nil {
			return err
		}
		if id == -1 {
			break
		}
		if id < 1 {
			return l.errorf("bad node id %d", id)
		}
		tour = append(tour, id-1)
	}
	if err := ValidatePermutation(tour, len(tour)); err != nil {
		return l.errorf("tour is not a permutation")
	}
	f.tours = append(f.tours, tour)

	return l.endSection()
}
