package ledger

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// attendanceABIJSON is the ABI surface of the attendance contract consumed
// by this service. The contract itself owns counter integrity and replays
// its own duplicate checks on-chain; the client mirrors the read predicates
// so writes known to fail are rejected before spending gas.
const attendanceABIJSON = `[
	{"type":"function","name":"sessionCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"sessions","stateMutability":"view","inputs":[{"name":"sessionId","type":"uint256"}],"outputs":[{"name":"name","type":"string"},{"name":"timestamp","type":"uint256"},{"name":"instructor","type":"address"},{"name":"totalStudents","type":"uint256"},{"name":"attendanceCount","type":"uint256"}]},
	{"type":"function","name":"isRegistered","stateMutability":"view","inputs":[{"name":"sessionId","type":"uint256"},{"name":"student","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"hasCheckedIn","stateMutability":"view","inputs":[{"name":"sessionId","type":"uint256"},{"name":"student","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"createSession","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"}],"outputs":[]},
	{"type":"function","name":"register","stateMutability":"nonpayable","inputs":[{"name":"sessionId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"checkIn","stateMutability":"nonpayable","inputs":[{"name":"sessionId","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"SessionCreated","anonymous":false,"inputs":[{"name":"sessionId","type":"uint256","indexed":true},{"name":"instructor","type":"address","indexed":true},{"name":"name","type":"string","indexed":false}]},
	{"type":"event","name":"StudentRegistered","anonymous":false,"inputs":[{"name":"sessionId","type":"uint256","indexed":true},{"name":"student","type":"address","indexed":true}]},
	{"type":"event","name":"StudentCheckedIn","anonymous":false,"inputs":[{"name":"sessionId","type":"uint256","indexed":true},{"name":"student","type":"address","indexed":true}]}
]`

const sessionCreatedEvent = "SessionCreated"

// parseAttendanceABI parses the embedded contract ABI
func parseAttendanceABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(attendanceABIJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse attendance ABI: %w", err)
	}
	return parsed, nil
}
