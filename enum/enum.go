package enum

import (
	"strings"
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Aliases maps alias values to declared enum value names, per enum.
// The zero value is not usable; create tables with New.
type Aliases struct {
	mu sync.RWMutex
	// enum full name -> lowercase alias -> declared name
	byEnum map[protoreflect.FullName]map[string]string
}

// New returns an empty alias table.
func New() *Aliases {
	return &Aliases{byEnum: make(map[protoreflect.FullName]map[string]string)}
}

// Register adds aliases for the enum with the given full name.
// enumName: the enum's full name (e.g., "acme.v1.ScanType")
// mappings: map of alias values to declared names (e.g., {"syn": "SYN_SCAN"})
func (a *Aliases) Register(enumName string, mappings map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := protoreflect.FullName(enumName)
	if a.byEnum[name] == nil {
		a.byEnum[name] = make(map[string]string)
	}
	for alias, declared := range mappings {
		a.byEnum[name][strings.ToLower(alias)] = declared
	}
}

// RegisterBatch registers aliases for several enums at once.
func (a *Aliases) RegisterBatch(enumMappings map[string]map[string]string) {
	for enumName, mappings := range enumMappings {
		a.Register(enumName, mappings)
	}
}

// Resolve returns the declared name registered for value on the enum, if any.
// A nil table resolves nothing. The read methods below treat nil the same way.
func (a *Aliases) Resolve(enumName protoreflect.FullName, value string) (string, bool) {
	if a == nil {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	declared, ok := a.byEnum[enumName][strings.ToLower(value)]
	return declared, ok
}

// Mappings returns a copy of the aliases registered for the enum, keyed by
// lowercase alias. Returns nil if the enum has none.
func (a *Aliases) Mappings(enumName string) map[string]string {
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	mappings, exists := a.byEnum[protoreflect.FullName(enumName)]
	if !exists {
		return nil
	}
	result := make(map[string]string, len(mappings))
	for alias, declared := range mappings {
		result[alias] = declared
	}
	return result
}

// Len returns the number of enums with registered aliases.
func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byEnum)
}

// Clear removes every alias. Clearing a nil table does nothing.
func (a *Aliases) Clear() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byEnum = make(map[protoreflect.FullName]map[string]string)
}
