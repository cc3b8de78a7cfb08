package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder turns merged source maps into typed, validated configuration structs.
// Decoding is handled by mapstructure against `config` tags with weak type
// conversion (so "8080" binds to an int and "5s" to a time.Duration), and the
// result is checked against `validate` tags via go-playground/validator.
type Binder struct {
	validator *validator.Validate
}

// BindError reports which stage of binding failed: "decode" for type
// conversion problems, "validate" for rule violations.
type BindError struct {
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	return &Binder{validator: validator.New()}
}

// Bind decodes source into target (a pointer to a struct) and validates it.
// The target may be partially populated when decode succeeds but validation
// fails.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "config",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
