// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gpucontext"

// DeviceHandle provides GPU device access from the host application.
//
// A host that already owns a device (for example a gogpu window) passes it
// with WithDeviceProvider so the GPU renderer shares it instead of opening
// its own. The provider must also expose the HAL objects:
//
//	HalDevice() any // hal.Device
//	HalQueue() any  // hal.Queue
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider
