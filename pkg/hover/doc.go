// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package hover implements the state machine deciding when a token's
disclosure panel is shown. Delays are driven by a Clock so that timers
can be cancelled on every transition and simulated in tests.
*/
package hover
