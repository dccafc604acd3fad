package cmake

import "sort"

// Options records boolean options forced on dependencies.
type Options struct {
	values map[string]map[string]bool
}

// NewOptions creates an empty option set.
func NewOptions() *Options {
	return &Options{values: make(map[string]map[string]bool)}
}

// SetOption sets option name on dependency dep.
func (o *Options) SetOption(dep, name string, value bool) {
	m, ok := o.values[dep]
	if !ok {
		m = make(map[string]bool)
		o.values[dep] = m
	}
	m[name] = value
}

// Get returns the value of option name on dep and whether it was set.
func (o *Options) Get(dep, name string) (bool, bool) {
	v, ok := o.values[dep][name]
	return v, ok
}

// For returns a copy of the options set on dep.
func (o *Options) For(dep string) map[string]bool {
	out := make(map[string]bool, len(o.values[dep]))
	for k, v := range o.values[dep] {
		out[k] = v
	}
	return out
}

// Flatten renders every option as "dep:name" -> "True" or "False".
func (o *Options) Flatten() map[string]string {
	out := make(map[string]string)
	for dep, m := range o.values {
		for name, v := range m {
			out[dep+":"+name] = boolString(v)
		}
	}
	return out
}

func sortedOptionNames(m map[string]bool) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func boolString(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
