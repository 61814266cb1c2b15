// Package profile is the imperative route declaration surface.
//
// A Profile registers routes into a Configuration:
//
//	var Routes = profile.Func(func(c *profile.Configuration) {
//	    c.AddRoute(component.TypeOf[pages.Home](), func(b *route.Builder) {
//	        b.WithChild(component.TypeOf[pages.Counter](), func(b *route.Builder) {
//	            b.WithURI("counter").WithMetadataValue("title", "Counter")
//	        })
//	    })
//	})
//
// Besides adding routes, a profile can edit, override or remove routes
// declared earlier by itself, by a previously registered profile, or by
// a component Declaration.
package profile

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/routekit/internal/errors"
)

// Profile declares routes.
type Profile interface {
	Configure(c *Configuration)
}

// Func adapts a function to Profile.
type Func func(c *Configuration)

// Configure calls f(c).
func (f Func) Configure(c *Configuration) {
	f(c)
}

// InvalidProfileError reports a profile registration that cannot be used.
type InvalidProfileError struct {
	Index  int
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("profile #%d: %s", e.Index, e.Reason)
}

// Coded returns the formatted form of the error.
func (e *InvalidProfileError) Coded() *errors.Error {
	return errors.New("R006").WithDetail(e.Error())
}

// Validate checks that every profile is usable: nil values and typed nil
// pointers or funcs are rejected.
func Validate(profiles []Profile) error {
	for i, p := range profiles {
		if p == nil {
			return &InvalidProfileError{Index: i, Reason: "profile is nil"}
		}
		rv := reflect.ValueOf(p)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface:
			if rv.IsNil() {
				return &InvalidProfileError{Index: i, Reason: fmt.Sprintf("profile of type %T is nil", p)}
			}
		}
	}
	return nil
}
