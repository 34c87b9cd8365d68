package protomap

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// enumLabel returns the declared name of number in the enum of fd.
func enumLabel(fd protoreflect.FieldDescriptor, number protoreflect.EnumNumber) (string, error) {
	ev := fd.Enum().Values().ByNumber(number)
	if ev == nil {
		return "", fmt.Errorf("%w: %d is not a valid value for field %q", ErrInvalidEnumValue, number, fd.Name())
	}
	return string(ev.Name()), nil
}

// enumNumber returns the number of the value called name in the enum of fd.
func enumNumber(fd protoreflect.FieldDescriptor, name string) (protoreflect.EnumNumber, error) {
	ev := fd.Enum().Values().ByName(protoreflect.Name(name))
	if ev == nil {
		return 0, fmt.Errorf("%w: %q is not a valid value for field %q", ErrInvalidEnumName, name, fd.Name())
	}
	return ev.Number(), nil
}
