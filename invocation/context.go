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

// Package invocation builds the synthetic context for the single
// invocation a bootstrap process performs.
package invocation

import (
	"bytes"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/google/uuid"
	"github.com/mocklambda/mocklambda/protocol"
)

// Context describes one invocation. Usage is only known after Finish.
type Context struct {
	RequestID string
	Handler   string
	Config    protocol.FunctionConfig
	StartTime time.Time

	Input  *bytes.Reader
	Output *bytes.Buffer

	now   func() time.Time
	arn   func() string
	usage *protocol.Usage
}

type Option func(*Context)

func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

func WithRequestID(id string) Option {
	return func(c *Context) { c.RequestID = id }
}

func New(cfg protocol.FunctionConfig, handler, body string, opts ...Option) *Context {
	c := &Context{
		Handler: handler,
		Config:  cfg,
		Input:   bytes.NewReader([]byte(body)),
		Output:  &bytes.Buffer{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.RequestID == "" {
		c.RequestID = uuid.NewString()
	}
	c.StartTime = c.now()
	c.arn = sync.OnceValue(func() string { return FunctionArn(&cfg) })
	return c
}

// FunctionArn derives the function's ARN, picking the partition that
// owns the configured region.
func FunctionArn(cfg *protocol.FunctionConfig) string {
	partition := endpoints.AwsPartitionID
	if p, ok := endpoints.PartitionForRegion(endpoints.DefaultPartitions(), cfg.Region); ok {
		partition = p.ID()
	}
	return arn.ARN{
		Partition: partition,
		Service:   "lambda",
		Region:    cfg.Region,
		AccountID: cfg.AccountID,
		Resource:  "function:" + cfg.FunctionName,
	}.String()
}

func (c *Context) Arn() string             { return c.arn() }
func (c *Context) FunctionVersion() string { return c.Config.FunctionVersion }

func (c *Context) Deadline() time.Time {
	return c.StartTime.Add(c.Config.Timeout)
}

// RemainingTime goes negative once the deadline has passed.
func (c *Context) RemainingTime() time.Duration {
	return c.Deadline().Sub(c.now())
}

// Finish records the end of the invocation. Calling it again has no
// effect.
func (c *Context) Finish(memoryUsed uint64) protocol.Usage {
	if c.usage != nil {
		return *c.usage
	}
	elapsed := c.now().Sub(c.StartTime)
	c.usage = &protocol.Usage{
		Duration:       elapsed,
		BilledDuration: protocol.BilledDuration(elapsed),
		MemorySize:     c.Config.MemorySize,
		MemoryUsed:     memoryUsed,
	}
	return *c.usage
}

func (c *Context) Usage() (protocol.Usage, bool) {
	if c.usage == nil {
		return protocol.Usage{}, false
	}
	return *c.usage, true
}

func (c *Context) OutputText() string {
	return c.Output.String()
}
