package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/spf13/pflag"
)

// paramsFlag collects repeated --param key=value flags into api.Params.
type paramsFlag struct {
	params api.Params
}

var _ pflag.Value = (*paramsFlag)(nil)

func (f *paramsFlag) String() string {
	if len(f.params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.params))
	for k := range f.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f.params[k]
	}
	return strings.Join(parts, ",")
}

func (f *paramsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if f.params == nil {
		f.params = api.Params{}
	}
	f.params[key] = value
	return nil
}

func (f *paramsFlag) Type() string { return "key=value" }

// Params returns the collected parameters, nil when none were given.
func (f *paramsFlag) Params() api.Params { return f.params }

func addParamsFlag(fs *pflag.FlagSet, f *paramsFlag) {
	fs.VarP(f, "param", "p", "query parameter as key=value (repeatable)")
}
