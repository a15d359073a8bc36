package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/slices"
)

// ByteOrderHookFunc returns a mapstructure decode hook that normalizes
// byte order names like "LE" or "big-endian".
func ByteOrderHookFunc() mapstructure.DecodeHookFuncType {
	byteOrderType := reflect.TypeOf(buffer.ByteOrder(""))

	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != byteOrderType || f.Kind() != reflect.String {
			return data, nil
		}
		return buffer.ParseByteOrder(reflect.ValueOf(data).String())
	}
}

// FailSafeModeHookFunc returns a mapstructure decode hook that rejects unknown fail-safe modes.
func FailSafeModeHookFunc() mapstructure.DecodeHookFuncType {
	modeType := reflect.TypeOf(FailSafeMode(""))

	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != modeType || f.Kind() != reflect.String {
			return data, nil
		}
		mode := FailSafeMode(strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())))
		if !slices.Contains(FailSafeModes, mode) {
			return nil, fmt.Errorf("unknown fail-safe mode: %s, use one of: hold | default | escalate", data)
		}
		return mode, nil
	}
}
