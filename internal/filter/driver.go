package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/chis/semfilter/internal/logging"
	"github.com/chis/semfilter/internal/query"
)

// Run is the line driver of spec.md §4.4: parse the query once, then for
// each line from in, split on tokenSepPattern, trim fields, evaluate,
// and echo the original line verbatim (including its trailing newline)
// on a true verdict. The first error of any kind is fatal and stops the
// driver immediately, matching spec.md §5's "all errors are fatal to the
// process after the first occurrence".
func Run(in io.Reader, out io.Writer, exprSrc, tokenSepPattern string, log *logging.Logger) error {
	if log == nil {
		log = logging.Default()
	}

	tree, err := query.Parse(exprSrc)
	if err != nil {
		return err
	}

	sep, err := regexp.Compile(tokenSepPattern)
	if err != nil {
		return fmt.Errorf("invalid token separator pattern %q: %w", tokenSepPattern, err)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	// Keep each line's own terminator so a match is echoed byte for byte.
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			return i + 1, data[:i+1], nil
		}
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	})

	writer := bufio.NewWriter(out)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSuffix(raw, "\n")
		fields := splitAndTrim(line, sep)

		matched, err := Evaluate(tree, fields, log)
		if err != nil {
			writer.Flush()
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !matched {
			continue
		}
		if _, err := writer.WriteString(raw); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		writer.Flush()
		return fmt.Errorf("reading input: %w", err)
	}
	return writer.Flush()
}

// splitAndTrim applies the separator regex and trims surrounding
// whitespace from each resulting field, per spec.md §4.4.
func splitAndTrim(line string, sep *regexp.Regexp) []string {
	raw := sep.Split(line, -1)
	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
