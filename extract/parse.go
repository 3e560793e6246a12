package extract

import (
	"fmt"

	"github.com/arnodel/jsonsample/encoding/json"
	"github.com/arnodel/jsonsample/token"
)

// Parse checks that the result's fragment, wrapped in brackets, is a valid
// JSON array holding the objects the scan found, and returns the text of each
// object.  Any failure is a *MalformedError.
func Parse(r Result) ([][]byte, error) {
	wrapped := []byte(r.Array())
	var shape token.CountingStream
	d := json.NewDecoder(wrapped)
	if err := d.Decode(&shape); err != nil {
		return nil, &MalformedError{Fragment: r.Fragment, Err: err}
	}
	if d.More() {
		return nil, &MalformedError{
			Fragment: r.Fragment,
			Err:      fmt.Errorf("unexpected data after array at byte %d", d.Offset()),
		}
	}
	if shape.Objects != r.ObjectsFound || len(r.Objects) != r.ObjectsFound {
		return nil, &MalformedError{
			Fragment: r.Fragment,
			Err:      fmt.Errorf("expected %d objects, found %d", r.ObjectsFound, shape.Objects),
		}
	}
	// wrapped[i] is the buffer byte at ArrayStart+i
	objects := make([][]byte, len(r.Objects))
	for i, span := range r.Objects {
		objects[i] = wrapped[span.Start-r.ArrayStart : span.End-r.ArrayStart : span.End-r.ArrayStart]
	}
	return objects, nil
}
