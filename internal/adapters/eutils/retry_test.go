package eutils_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/genemap/genemap/internal/adapters/eutils"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicyDo(t *testing.T) {
	Convey("Given a retry policy with 6 attempts and a short delay", t, func() {
		policy := eutils.Policy{Attempts: 6, Delay: time.Millisecond}

		Convey("When every attempt fails transiently", func() {
			calls := 0
			err := policy.Do(context.Background(), func(ctx context.Context) error {
				calls++
				return fmt.Errorf("%w: connection refused", eutils.ErrTransient)
			})

			Convey("Then exactly 6 attempts are made before exhaustion", func() {
				So(calls, ShouldEqual, 6)
				So(errors.Is(err, eutils.ErrExhaustedRetries), ShouldBeTrue)
				So(errors.Is(err, eutils.ErrTransient), ShouldBeTrue)
			})
		})

		Convey("When the operation succeeds on the third attempt", func() {
			calls := 0
			err := policy.Do(context.Background(), func(ctx context.Context) error {
				calls++
				if calls < 3 {
					return fmt.Errorf("%w: timeout", eutils.ErrTransient)
				}
				return nil
			})

			Convey("Then it stops retrying after success", func() {
				So(err, ShouldBeNil)
				So(calls, ShouldEqual, 3)
			})
		})

		Convey("When the failure is not transient", func() {
			calls := 0
			parseErr := fmt.Errorf("%w: truncated document", eutils.ErrMalformedRecord)
			err := policy.Do(context.Background(), func(ctx context.Context) error {
				calls++
				return parseErr
			})

			Convey("Then it propagates immediately without retry", func() {
				So(calls, ShouldEqual, 1)
				So(errors.Is(err, eutils.ErrMalformedRecord), ShouldBeTrue)
				So(errors.Is(err, eutils.ErrExhaustedRetries), ShouldBeFalse)
			})
		})

		Convey("When the context is cancelled between attempts", func() {
			ctx, cancel := context.WithCancel(context.Background())
			slow := eutils.Policy{Attempts: 6, Delay: time.Minute}
			calls := 0
			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()
			err := slow.Do(ctx, func(ctx context.Context) error {
				calls++
				return fmt.Errorf("%w: flaky", eutils.ErrTransient)
			})

			Convey("Then the policy stops waiting and reports the cancellation", func() {
				So(calls, ShouldEqual, 1)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a zero-valued policy", t, func() {
		policy := eutils.Policy{}

		Convey("When the operation fails once", func() {
			calls := 0
			err := policy.Do(context.Background(), func(ctx context.Context) error {
				calls++
				return fmt.Errorf("%w: boom", eutils.ErrTransient)
			})

			Convey("Then it still makes a single attempt", func() {
				So(calls, ShouldEqual, 1)
				So(errors.Is(err, eutils.ErrExhaustedRetries), ShouldBeTrue)
			})
		})
	})
}

func TestIsTransient(t *testing.T) {
	Convey("Given the transient classifier", t, func() {
		So(eutils.IsTransient(fmt.Errorf("%w: status 503", eutils.ErrTransient)), ShouldBeTrue)
		So(eutils.IsTransient(eutils.ErrMalformedRecord), ShouldBeFalse)
		So(eutils.IsTransient(nil), ShouldBeFalse)
	})
}
