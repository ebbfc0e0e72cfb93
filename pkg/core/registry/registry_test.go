// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"slices"
	"testing"
)

func TestNewRegistryLength(t *testing.T) {
	registry := New[string, int]()

	if registry.Length() != 0 {
		t.Fatalf("New registry must have a length of 0.")
	}
}

func TestRegistryGetAfterRegister(t *testing.T) {
	registry := New[string, int]()

	const key = "key"
	const value = 42

	if err := registry.Register(key, value); err != nil {
		t.Fatalf("failed to register key %q: %s", key, err)
	}

	outValue, exists := registry.Get(key)
	if !exists {
		t.Fatalf("No value found for registered key %q", key)
	}

	if outValue != value {
		t.Fatalf("Registry returned value %d, expected %d.", outValue, value)
	}
}

func TestRegisterDuplicateKey(t *testing.T) {
	registry := New[string, int]()

	registry.MustRegister("key", 1)
	err := registry.Register("key", 2)
	if !errors.Is(err, ErrKeyAlreadyRegistered) {
		t.Fatalf("wanted %s, got %s", ErrKeyAlreadyRegistered, err)
	}
}

func TestMustRegisterPanicsOnDuplicateKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister must panic on duplicate keys")
		}
	}()

	registry := New[string, int]()
	registry.MustRegister("key", 1)
	registry.MustRegister("key", 2)
}

func TestOverwriteReplacesValue(t *testing.T) {
	registry := New[string, int]()

	registry.MustRegister("key", 1)
	registry.Overwrite("key", 2)

	value, _ := registry.Get("key")
	if value != 2 {
		t.Fatalf("wanted value 2 after overwrite, got %d", value)
	}
}

func TestUnregisterReducesLength(t *testing.T) {
	registry := New[string, int]()

	registry.MustRegister("key", 1)
	registry.Unregister("key")

	if registry.Length() != 0 {
		t.Fatalf("After registering and unregistering a single item, registry must have a length of 0.")
	}

	if registry.Exists("key") {
		t.Fatal("Unregistered key must not exist in the registry.")
	}
}

func TestKeys(t *testing.T) {
	registry := New[string, int]()

	registry.MustRegister("foo", 1)
	registry.MustRegister("bar", 2)

	keys := registry.Keys()
	slices.Sort(keys)

	wanted := []string{"bar", "foo"}
	if !slices.Equal(keys, wanted) {
		t.Fatalf("wanted keys %v, got %v", wanted, keys)
	}
}

func TestRangeStopIteration(t *testing.T) {
	registry := New[string, int]()

	registry.MustRegister("foo", 1)
	registry.MustRegister("bar", 2)

	seen := 0
	err := registry.Range(func(_ string, _ int) error {
		seen++
		return ErrStopIteration
	})

	if err != nil {
		t.Fatalf("Range with ErrStopIteration must not return an error, got %s", err)
	}

	if seen != 1 {
		t.Fatalf("wanted a single item before stopping iteration, got %d", seen)
	}
}

func TestRangePropagatesErrors(t *testing.T) {
	registry := New[string, int]()
	registry.MustRegister("foo", 1)

	wanted := errors.New("boom")
	err := registry.Range(func(_ string, _ int) error {
		return wanted
	})

	if !errors.Is(err, wanted) {
		t.Fatalf("wanted %s, got %s", wanted, err)
	}
}
