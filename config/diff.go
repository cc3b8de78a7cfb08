package config

import "reflect"

// diffEvent compares two bound configuration structs field by field and
// builds the change event sent to subscribers. Only top-level fields are
// reported; nil or non-struct inputs yield an event with no changed keys.
func diffEvent(old, updated any) Event {
	evt := Event{ChangedKeys: []string{}, OldConfig: old, NewConfig: updated}
	if old == nil || updated == nil {
		return evt
	}

	oldVal := indirect(reflect.ValueOf(old))
	newVal := indirect(reflect.ValueOf(updated))
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct {
		return evt
	}
	if oldVal.Type() != newVal.Type() {
		return evt
	}

	for i := 0; i < oldVal.NumField(); i++ {
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, oldVal.Type().Field(i).Name)
		}
	}
	return evt
}

func indirect(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Ptr {
		return v.Elem()
	}
	return v
}
