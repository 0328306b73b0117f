// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines one sentinel error kind per layer of the analysis
// pipeline (parse, envelope, transport, rpc, validation, config) so that a
// single switch at the HTTP boundary can map any of them to a response.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison with errors.Is.
var (
	// Argument parser failures, 400-class.
	ErrInvalidType   = errors.New("invalid argument type")
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidHex    = errors.New("invalid hex literal")

	// Envelope codec failures, 500-class.
	ErrXDR    = errors.New("xdr encode/decode failure")
	ErrBase64 = errors.New("base64 decode failure")

	// Provider dispatch / transport.
	ErrNodeTimeout           = errors.New("node timeout")
	ErrNetwork               = errors.New("network error")
	ErrRPCRequestFailed      = errors.New("rpc request failed")
	ErrNodeError             = errors.New("node error")
	ErrNodeInternal          = errors.New("node internal error")
	ErrAllProvidersExhausted = errors.New("all providers unavailable")

	// Validation failures, 400-class, never retried.
	ErrValidation = errors.New("validation error")

	// Generic parse/serialization failures surfaced from the RPC response.
	ErrParse         = errors.New("parse error")
	ErrSerialization = errors.New("serialization error")
	ErrIO            = errors.New("io error")

	// Configuration.
	ErrConfig = errors.New("configuration error")
)

func WrapInvalidType(location, expected, found string) error {
	return fmt.Errorf("%w: at %s expected %s, found %s", ErrInvalidType, location, expected, found)
}

func WrapInvalidSymbol(location, details string) error {
	return fmt.Errorf("%w: at %s: %s", ErrInvalidSymbol, location, details)
}

func WrapInvalidHex(location, details string) error {
	return fmt.Errorf("%w: at %s: %s", ErrInvalidHex, location, details)
}

func WrapXDR(detail string) error {
	return fmt.Errorf("%w: %s", ErrXDR, detail)
}

func WrapBase64(err error) error {
	return fmt.Errorf("%w: %w", ErrBase64, err)
}

func WrapNodeTimeout(err error) error {
	return fmt.Errorf("%w: %w", ErrNodeTimeout, err)
}

func WrapNetwork(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func WrapRPCRequestFailed(status int, body string) error {
	return fmt.Errorf("%w: http %d: %s", ErrRPCRequestFailed, status, body)
}

func WrapNodeError(code int, message string) error {
	return fmt.Errorf("%w: code %d: %s", ErrNodeError, code, message)
}

// WrapNodeInternal marks a -32603 node internal error, which unlike other
// node errors is retryable and triggers failover to the next provider.
func WrapNodeInternal(code int, message string) error {
	return fmt.Errorf("%w: code %d: %s", ErrNodeInternal, code, message)
}

func WrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func WrapParse(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}

func WrapSerialization(err error) error {
	return fmt.Errorf("%w: %w", ErrSerialization, err)
}

func WrapIO(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func WrapConfig(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrConfig, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrConfig, msg, err)
}

// Retryable reports whether the sentinel kind behind err should trigger
// provider failover: timeouts and transport errors always, retryable HTTP
// statuses (429 / 5xx, wrapped as ErrRPCRequestFailed by the caller), and
// -32603 node internal errors. -32602 parameter rejections are not.
func Retryable(err error) bool {
	return errors.Is(err, ErrNodeTimeout) ||
		errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrRPCRequestFailed) ||
		errors.Is(err, ErrNodeInternal)
}
