package types

import (
	"fmt"
	"reflect"
)

// Record is one parsed unit of data derived from a single input line.  Records travel through the
// engine as this interface; the dynamic type is whatever the source's parser produced and is
// recovered with As.  A record must not be modified by the parser after it has been returned.
type Record interface {
	fmt.Stringer
}

// As recovers the concrete type of r.  A mismatch means the consumer was built against a different
// record type than the source's parser produces and is reported as a *RecordTypeMismatchError.
func As[T Record](r Record) (T, error) {
	v, ok := r.(T)
	if !ok {
		var zero T
		return zero, &RecordTypeMismatchError{Expected: typeName[T](), Actual: fmt.Sprintf("%T", r)}
	}
	return v, nil
}

// MustAs is like As but panics on a mismatch.
func MustAs[T Record](r Record) T {
	v, err := As[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// Records recovers the concrete type of every record in b, preserving order.
func Records[T Record](b *Batch) ([]T, error) {
	out := make([]T, 0, len(b.Records))
	for i, r := range b.Records {
		v, err := As[T](r)
		if err != nil {
			return nil, fmt.Errorf("record %d of batch %d from %s: %w", i, b.Seq, b.Source, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
