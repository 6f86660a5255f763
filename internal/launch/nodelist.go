package launch

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandNodeList expands the workload manager's compact hostlist notation
// into individual hostnames: "gpu[001-003,007],login1" becomes
// [gpu001 gpu002 gpu003 gpu007 login1]. Zero padding is preserved.
func ExpandNodeList(list string) ([]string, error) {
	var hosts []string
	for _, entry := range splitOutsideBrackets(list) {
		expanded, err := expandEntry(entry)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, expanded...)
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("empty node list %q", list)
	}
	return hosts, nil
}

// splitOutsideBrackets splits on commas that are not inside a bracket
// group, so "a[1,3],b" yields ["a[1,3]", "b"].
func splitOutsideBrackets(list string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				if i > start {
					parts = append(parts, list[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(list) {
		parts = append(parts, list[start:])
	}
	return parts
}

func expandEntry(entry string) ([]string, error) {
	open := strings.IndexByte(entry, '[')
	if open == -1 {
		if strings.ContainsRune(entry, ']') {
			return nil, fmt.Errorf("unbalanced brackets in node entry %q", entry)
		}
		return []string{entry}, nil
	}

	closing := strings.LastIndexByte(entry, ']')
	if closing < open {
		return nil, fmt.Errorf("unbalanced brackets in node entry %q", entry)
	}

	prefix := entry[:open]
	suffix := entry[closing+1:]
	var hosts []string
	for _, r := range strings.Split(entry[open+1:closing], ",") {
		expanded, err := expandRange(prefix, r, suffix)
		if err != nil {
			return nil, fmt.Errorf("node entry %q: %w", entry, err)
		}
		hosts = append(hosts, expanded...)
	}
	return hosts, nil
}

// expandRange handles one "7" or "001-003" range inside a bracket group.
// The width of the lower bound sets the zero padding.
func expandRange(prefix, r, suffix string) ([]string, error) {
	loStr, hiStr, isRange := strings.Cut(r, "-")
	if !isRange {
		hiStr = loStr
	}

	lo, err := strconv.Atoi(loStr)
	if err != nil {
		return nil, fmt.Errorf("bad range bound %q", loStr)
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil {
		return nil, fmt.Errorf("bad range bound %q", hiStr)
	}
	if hi < lo {
		return nil, fmt.Errorf("descending range %q", r)
	}

	width := len(loStr)
	hosts := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		hosts = append(hosts, fmt.Sprintf("%s%0*d%s", prefix, width, i, suffix))
	}
	return hosts, nil
}
