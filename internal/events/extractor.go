package events

import (
	"errors"
	"fmt"
	"iter"

	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

// ErrIntegrity marks live/serialized disagreement scoped to one event.
// Callers warn and keep going.
var (
	ErrIntegrity     = errors.New("event integrity problem")
	ErrCountMismatch = errors.New("live and serialized listener counts differ")
)

type IntegrityError struct {
	Event           string
	Path            serial.Path
	LiveCount       int
	SerializedCount int
	Err             error
}

func (e *IntegrityError) Error() string {
	if errors.Is(e.Err, ErrCountMismatch) {
		return fmt.Sprintf("%s (%s): %v: live=%d serialized=%d", e.Event, e.Path, e.Err, e.LiveCount, e.SerializedCount)
	}
	return fmt.Sprintf("%s (%s): %v", e.Event, e.Path, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// ListenerRecord is one persistent listener of an event
type ListenerRecord struct {
	Target   host.Object
	Method   string
	Argument CallArgument
	Index    int // position in the persistent listener table
}

// Valid reports whether the listener's target still exists
func (r ListenerRecord) Valid() bool {
	return host.IsAlive(r.Target)
}

func (r ListenerRecord) String() string {
	target := "None"
	if r.Target != nil {
		target = r.Target.Name()
	}
	return fmt.Sprintf("( %s, %s, %s )", target, r.Method, r.Argument.Text())
}

// GetListeners returns the valid listeners of ref in table order. An
// *IntegrityError comes back together with whatever records could be aligned.
// Any other error is a contract violation and no records are returned.
func GetListeners(ref EventRef) ([]ListenerRecord, error) {
	var (
		records   []ListenerRecord
		integrity error
	)
	for rec, err := range Listeners(ref) {
		if err != nil {
			if errors.Is(err, ErrIntegrity) {
				integrity = err
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, integrity
}

// FirstValid stops at the first valid listener of ref
func FirstValid(ref EventRef) (ListenerRecord, bool, error) {
	for rec, err := range Listeners(ref) {
		if err != nil {
			if errors.Is(err, ErrIntegrity) {
				continue
			}
			return ListenerRecord{}, false, err
		}
		return rec, true, nil
	}
	return ListenerRecord{}, false, nil
}

// Listeners lazily yields the valid listeners of ref. Integrity problems are
// yielded once, after the aligned records; a contract violation is yielded
// immediately and ends the sequence.
func Listeners(ref EventRef) iter.Seq2[ListenerRecord, error] {
	return func(yield func(ListenerRecord, error) bool) {
		if ref.Live == nil {
			return
		}

		liveCount := ref.Live.PersistentEventCount()
		calls, ok := serial.Child(ref.Serialized, persistentField, callsField)
		serializedCount := 0
		if ok {
			serializedCount = calls.Len()
		}

		// cause is the first per-listener storage problem, if any
		var cause error
		aligned := min(liveCount, serializedCount)
		for i := 0; i < aligned; i++ {
			rec, err := readListener(ref.Live, calls, i)
			if err != nil {
				if errors.Is(err, ErrUnknownMode) {
					yield(ListenerRecord{}, err)
					return
				}
				if cause == nil {
					cause = err
				}
				continue
			}
			if !rec.Valid() {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}

		if liveCount != serializedCount {
			if cause == nil {
				cause = ErrCountMismatch
			} else {
				cause = fmt.Errorf("%w; %w", cause, ErrCountMismatch)
			}
		}
		if cause != nil {
			yield(ListenerRecord{}, &IntegrityError{
				Event:           ref.Name,
				Path:            ref.Path,
				LiveCount:       liveCount,
				SerializedCount: serializedCount,
				Err:             cause,
			})
		}
	}
}

func readListener(live host.Event, calls serial.Property, i int) (ListenerRecord, error) {
	mode, err := ReadMode(calls, i)
	if err != nil {
		return ListenerRecord{}, err
	}
	arg, err := Decode(mode, calls, i)
	if err != nil {
		return ListenerRecord{}, err
	}
	return ListenerRecord{
		Target:   live.PersistentTarget(i),
		Method:   live.PersistentMethodName(i),
		Argument: arg,
		Index:    i,
	}, nil
}
