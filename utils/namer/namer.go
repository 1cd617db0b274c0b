// Package namer implements the canonical naming scheme for steps and
// ports: a double-underscore separator for step names, and a
// triple-underscore separator for namespace-qualified port names, chosen
// to be collision-free with each other.
package namer

import (
	"fmt"
	"strings"
)

// PortSep is the separator joining namespace components, step names, and
// port names into a single mangled identifier. Always exactly three
// underscores, distinct from the two-underscore stepSep below.
const PortSep = "___"

// stepSep separates the parent stem / index / child stem inside a single
// mangled step name. Two underscores: collision-free with PortSep because
// a step name component is never allowed to contain three underscores in
// a row (checked by validateComponent).
const stepSep = "__"

// StepName produces "<parent_stem>__step__<index>__<child_stem>".
func StepName(parentStem string, index int, childKey string) (string, error) {
	childStem := stem(childKey)
	for _, c := range []string{parentStem, childStem} {
		if err := validateComponent(c); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s%sstep%s%d%s%s", parentStem, stepSep, stepSep, index, stepSep, childStem), nil
}

// PortName joins a namespace path, a step name, and a port name with the
// triple-underscore separator. Splitting the result with SplitPort
// reverses it exactly.
func PortName(namespace []string, stepName, port string) (string, error) {
	for _, c := range append(append([]string{}, namespace...), stepName, port) {
		if err := validateComponent(c); err != nil {
			return "", err
		}
	}
	parts := append(append([]string{}, namespace...), stepName, port)
	return strings.Join(parts, PortSep), nil
}

// SplitPort reverses PortName: given a mangled name and the namespace
// depth it was built with, returns (namespace, stepName, port).
func SplitPort(mangled string, namespaceDepth int) ([]string, string, string, error) {
	parts := strings.Split(mangled, PortSep)
	if len(parts) != namespaceDepth+2 {
		return nil, "", "", fmt.Errorf("namer: %q does not split into %d namespace components + step + port (got %d parts)", mangled, namespaceDepth, len(parts))
	}
	return parts[:namespaceDepth], parts[namespaceDepth], parts[namespaceDepth+1], nil
}

// validateComponent rejects any path/step/port component containing the
// port separator, which would make splitting ambiguous.
func validateComponent(c string) error {
	if strings.Contains(c, PortSep) {
		return fmt.Errorf("namer: component %q must not contain the port separator %q", c, PortSep)
	}
	return nil
}

// stem strips a trailing file extension the way Python's pathlib.Path.stem
// does, e.g. "sub.yml" -> "sub". Keys that aren't filenames (atomic tool
// stems) are returned unchanged since they have no extension to strip.
func stem(key string) string {
	if idx := strings.LastIndex(key, "."); idx > 0 {
		return key[:idx]
	}
	return key
}
