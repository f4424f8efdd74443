package engine

import (
	"encoding/json"
	"fmt"

	"github.com/botweave/botweave/model"
	"github.com/dop251/goja"
)

// runScript evaluates a javascript expression with $ bound to the
// subscriber's data map and persists whatever the script leaves in $.
// Script errors halt the run like any other dispatch failure.
func (e *Engine) runScript(expression string, subscriber *model.Subscriber) error {
	if expression == "" {
		return nil
	}
	data, err := json.Marshal(subscriber.Data)
	if err != nil {
		return err
	}
	src := fmt.Sprintf("var $ = %s;\n%s", data, expression)
	vm := goja.New()
	if _, err := vm.RunString(src); err != nil {
		return fmt.Errorf("error executing script %w", err)
	}
	val, err := vm.RunString("$")
	if err != nil {
		return fmt.Errorf("error executing script %w", err)
	}
	out, err := json.Marshal(val.Export())
	if err != nil {
		return err
	}
	var result map[string]any
	if err := json.Unmarshal(out, &result); err != nil {
		return err
	}
	if subscriber.Data == nil {
		subscriber.Data = make(map[string]string)
	}
	for k, v := range result {
		subscriber.Data[k] = fmt.Sprintf("%v", v)
	}
	return e.storage.SaveSubscriber(*subscriber)
}
