// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonutil has helpers for strict JSON decoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

const Null = "null"

// IsNull reports whether data is the JSON null literal.
func IsNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == Null
}

// Keys returns the JSON object keys of struct or struct pointer s in
// field order. Options after the comma are dropped, untagged fields use
// the field name and fields tagged "-" are skipped.
func Keys(s interface{}) []string {
	typ := reflect.TypeOf(s)
	if typ == nil {
		return nil
	}

	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil
	}

	keys := make([]string, 0, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}

		keys = append(keys, name)
	}

	return keys
}

// MissingKey returns the first key of s that the JSON object data lacks.
// ok is false if every key is present.
func MissingKey(data []byte, s interface{}) (key string, ok bool, err error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", false, err
	}

	for _, k := range Keys(s) {
		if _, found := obj[k]; !found {
			return k, true, nil
		}
	}

	return "", false, nil
}
