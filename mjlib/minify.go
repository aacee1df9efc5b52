package mjlib

import "bytes"

// Minify applies a conservative line-based whitespace reduction to C
// source: line endings are normalized to '\n', trailing blanks are
// trimmed, runs of empty lines collapse to one, and empty lines at the end
// of the input are removed. It never rewrites the
// interior of a line, so string and character literals are preserved.
func Minify(src []byte) []byte {
	hadFinalNL := bytes.HasSuffix(src, []byte("\n"))
	lines := bytes.Split(src, []byte("\n"))

	out := make([][]byte, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = bytes.TrimRight(line, " \t\r")
		if len(line) == 0 {
			if !blank {
				out = append(out, line)
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	// Drop trailing empty lines, including the empty element Split leaves
	// for input ending in '\n'; a final newline is restored below only if
	// the input had one.
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	res := bytes.Join(out, []byte("\n"))
	if hadFinalNL && len(res) > 0 {
		res = append(res, '\n')
	}
	return res
}
