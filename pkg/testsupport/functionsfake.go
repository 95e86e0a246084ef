package testsupport

import (
	"context"
	"encoding/json"
	"sync"
)

type FunctionCall struct {
	Name    string
	Payload json.RawMessage
}

// FunctionsFake returns canned results per function name.
type FunctionsFake struct {
	Results map[string]json.RawMessage
	Errs    map[string]error

	lock  sync.Mutex
	calls []FunctionCall
}

func (ff *FunctionsFake) Call(
	ctx context.Context,
	name string,
	payload interface{},
) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ff.lock.Lock()
	ff.calls = append(ff.calls, FunctionCall{Name: name, Payload: data})
	ff.lock.Unlock()

	if err := ff.Errs[name]; err != nil {
		return nil, err
	}
	return ff.Results[name], nil
}

func (ff *FunctionsFake) Calls() []FunctionCall {
	ff.lock.Lock()
	defer ff.lock.Unlock()
	out := make([]FunctionCall, len(ff.calls))
	copy(out, ff.calls)
	return out
}
