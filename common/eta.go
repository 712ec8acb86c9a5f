// Copyright 2025 The go-sm3 Authors
// This file is part of the go-sm3 library.
//
// The go-sm3 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-sm3 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-sm3 library. If not, see <http://www.gnu.org/licenses/>.

package common

import "time"

// CalculateETA estimates the time remaining for a batch of work, given the
// amount already done and the time it took. A zero duration is returned when
// no estimate can be made yet.
func CalculateETA(done, left uint64, elapsed time.Duration) time.Duration {
	if done == 0 || elapsed == 0 {
		return 0
	}
	return time.Duration(float64(elapsed) * float64(left) / float64(done))
}
