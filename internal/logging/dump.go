package logging

import (
	"fmt"
	"reflect"
)

// Bounds for Dump's reflection walk.
const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// Dump logs the contents of v at debug level, one line per field or
// element. Structs show exported fields, maps and slices show their
// entries up to a bound, pointers are followed with cycle detection.
// Intended for inspecting effective configuration at startup.
func (l *Logger) Dump(v interface{}) {
	if !l.enabled(LevelDebug) {
		return
	}
	if v == nil {
		l.eventAt(LevelDebug).Msg("dump: <nil>")
		return
	}
	l.dumpValue(v, "", map[uintptr]bool{}, 0)
}

func (l *Logger) dumpValue(v interface{}, prefix string, visited map[uintptr]bool, depth int) {
	if depth > maxDumpDepth {
		l.eventAt(LevelDebug).Msgf("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		l.eventAt(LevelDebug).Msgf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			l.eventAt(LevelDebug).Msgf("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if visited[ptr] {
				l.eventAt(LevelDebug).Msgf("%s: <circular reference>", prefix)
				return
			}
			visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == "" {
			l.eventAt(LevelDebug).Msgf("dump: %s", typ.Name())
		} else {
			l.eventAt(LevelDebug).Msgf("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			fieldVal := val.Field(i)
			if !fieldVal.CanInterface() {
				continue
			}
			name := typ.Field(i).Name
			if prefix != "" {
				name = prefix + "." + name
			}
			l.dumpValue(fieldVal.Interface(), name, visited, depth+1)
		}
		if prefix != "" {
			l.eventAt(LevelDebug).Msgf("%s: }", prefix)
		}

	case reflect.Map:
		l.eventAt(LevelDebug).Msgf("%s: map[%s]%s (len: %d)",
			prefix, typ.Key(), typ.Elem(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			l.dumpValue(iter.Value().Interface(), key, visited, depth+1)
		}

	case reflect.Slice, reflect.Array:
		l.eventAt(LevelDebug).Msgf("%s: %s (len: %d)", prefix, typ, val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			if !elem.CanInterface() {
				continue
			}
			l.dumpValue(elem.Interface(), fmt.Sprintf("%s[%d]", prefix, i), visited, depth+1)
		}
		if val.Len() > maxDumpElements {
			l.eventAt(LevelDebug).Msgf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}

	default:
		if val.CanInterface() {
			l.eventAt(LevelDebug).Msgf("%s: %v", prefix, val.Interface())
		} else {
			l.eventAt(LevelDebug).Msgf("%s: %v", prefix, v)
		}
	}
}
