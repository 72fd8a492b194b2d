package common

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

type taggedRequest struct {
	Tag string `validate:"required,min=1"`
}

func TestGenericEchoValidator(t *testing.T) {
	v := &GenericEchoValidator{}

	if err := v.Validate(&taggedRequest{Tag: "cat"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := v.Validate(&taggedRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty tag, got nil")
	}
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", httpErr.Code)
	}
}

func TestGenericEchoValidator_ConcurrentFirstUse(t *testing.T) {
	v := &GenericEchoValidator{}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- v.Validate(&taggedRequest{Tag: "dog"})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("expected valid request, got %v", err)
		}
	}
}

func TestNewGenericEchoValidator(t *testing.T) {
	v := NewGenericEchoValidator()
	if v.Validator == nil {
		t.Fatal("expected validator to be built eagerly")
	}
	if err := v.Validate(&taggedRequest{}); err == nil {
		t.Fatal("expected validation error for empty tag, got nil")
	}
}
