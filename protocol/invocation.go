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

package protocol

import (
	"time"
)

// FallbackBody is used when no event body is supplied. It is not
// valid JSON, and existing callers rely on exactly these bytes.
const FallbackBody = "'{}'"

// InvocationRequest is what the command line and environment asked
// us to run.
type InvocationRequest struct {
	Handler         string
	Body            string
	WaitForDebugger bool
}

type FunctionConfig struct {
	FunctionName    string
	FunctionVersion string
	// MemorySize is in MB
	MemorySize int64
	Timeout    time.Duration
	Region     string
	AccountID  string
	TaskRoot   string
}

type Usage struct {
	Duration       time.Duration
	BilledDuration time.Duration
	MemorySize     int64
	MemoryUsed     uint64
}

const BillingGranularity = 100 * time.Millisecond

// BilledDuration rounds d up to the next BillingGranularity.
func BilledDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return ((d + BillingGranularity - 1) / BillingGranularity) * BillingGranularity
}

// MemoryUsedMB converts a byte count to whole megabytes, rounding down.
func (u *Usage) MemoryUsedMB() uint64 {
	return u.MemoryUsed / (1024 * 1024)
}
