// Package httputil provides HTTP helpers shared by outbound API clients.
//
// # Retry
//
// A [Policy] re-runs an operation with capped exponential backoff, but only
// for errors the caller marked as transient by wrapping them in
// [RetryableError]:
//
//	p := httputil.Policy{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}
//	err := p.Do(ctx, func(attempt int) error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
//
// [Retry] is shorthand for an uncapped policy.
//
// [CheckStatus] classifies a response: 2xx is success, 5xx is retryable,
// everything else is returned as a plain [StatusError].
package httputil
