package policy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOperationNotSupported is returned for control operations the bound
// processor does not support.
var ErrOperationNotSupported = errors.New("operation not supported by session processor")

// Operation identifies a class of device control operation.
type Operation uint8

const (
	OperationZoom Operation = iota + 1
	OperationAutoFocus
	OperationAutoExposure
	OperationAutoWhiteBalance
	OperationFlash
	OperationTorch
	OperationExposureCompensation
)

var operationNames = map[Operation]string{
	OperationZoom:                 "zoom",
	OperationAutoFocus:            "auto_focus",
	OperationAutoExposure:         "auto_exposure",
	OperationAutoWhiteBalance:     "auto_white_balance",
	OperationFlash:                "flash",
	OperationTorch:                "torch",
	OperationExposureCompensation: "exposure_compensation",
}

// Operations returns every known operation in declaration order.
func Operations() []Operation {
	return []Operation{
		OperationZoom,
		OperationAutoFocus,
		OperationAutoExposure,
		OperationAutoWhiteBalance,
		OperationFlash,
		OperationTorch,
		OperationExposureCompensation,
	}
}

// String returns the operation name.
func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", uint8(o))
}

// ParseOperation parses an operation name (case-insensitive).
func ParseOperation(s string) (Operation, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for op, name := range operationNames {
		if name == want {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operation: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	if _, ok := operationNames[o]; !ok {
		return nil, fmt.Errorf("invalid operation: %d", uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
