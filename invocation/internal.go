// Copyright 2020 Nelson Elhage
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package invocation

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Internal is the view of an invocation that is handed to the loader.
// It is never modified after construction.
type Internal struct {
	remainingTime func() time.Duration
	deadline      time.Time
	log           func(string)

	clientContext         func() *lambdacontext.ClientContext
	awsRequestID          string
	invokedFunctionArn    func() string
	cognitoIdentityID     func() string
	cognitoIdentityPoolID func() string

	environment map[string]string
}

// Internal derives the loader-facing context. logf must write to the
// error stream. env is copied.
func (c *Context) Internal(logf func(string), env map[string]string) *Internal {
	return &Internal{
		remainingTime: c.RemainingTime,
		deadline:      c.Deadline(),
		log:           logf,
		clientContext: sync.OnceValue(func() *lambdacontext.ClientContext {
			return &lambdacontext.ClientContext{}
		}),
		awsRequestID:          c.RequestID,
		invokedFunctionArn:    sync.OnceValue(c.Arn),
		cognitoIdentityID:     sync.OnceValue(empty),
		cognitoIdentityPoolID: sync.OnceValue(empty),
		environment:           maps.Clone(env),
	}
}

func empty() string { return "" }

func (i *Internal) RemainingTime() time.Duration { return i.remainingTime() }
func (i *Internal) Deadline() time.Time          { return i.deadline }

func (i *Internal) Log(text string) {
	if i.log != nil {
		i.log(text)
	}
}

func (i *Internal) ClientContext() *lambdacontext.ClientContext { return i.clientContext() }
func (i *Internal) AwsRequestID() string                        { return i.awsRequestID }
func (i *Internal) InvokedFunctionArn() string                  { return i.invokedFunctionArn() }
func (i *Internal) CognitoIdentityID() string                   { return i.cognitoIdentityID() }
func (i *Internal) CognitoIdentityPoolID() string               { return i.cognitoIdentityPoolID() }

// Environment returns a copy of the environment as it was when the
// context was built.
func (i *Internal) Environment() map[string]string {
	return maps.Clone(i.environment)
}

// LambdaContext converts to the type Go handlers read with
// lambdacontext.FromContext.
func (i *Internal) LambdaContext() *lambdacontext.LambdaContext {
	return &lambdacontext.LambdaContext{
		AwsRequestID:       i.AwsRequestID(),
		InvokedFunctionArn: i.InvokedFunctionArn(),
		Identity: lambdacontext.CognitoIdentity{
			CognitoIdentityID:     i.CognitoIdentityID(),
			CognitoIdentityPoolID: i.CognitoIdentityPoolID(),
		},
		ClientContext: *i.ClientContext(),
	}
}

type key int

const internalKey key = iota

// NewContext returns a copy of ctx carrying ic, for in-process handlers
// that want the log callback or the environment snapshot.
func NewContext(ctx context.Context, ic *Internal) context.Context {
	return context.WithValue(ctx, internalKey, ic)
}

func FromContext(ctx context.Context) (*Internal, bool) {
	ic, ok := ctx.Value(internalKey).(*Internal)
	return ic, ok
}
