package main

import (
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/rc"
	"github.com/BryanSouza91/RotorFC/sitl"
)

// demoFlight arms after the aligner has had time to lock, climbs in hover
// mode, then cuts the transmitter to exercise the failsafe descent.
var demoFlight = sitl.Script{
	Steps: []sitl.PilotStep{
		{At: 3 * time.Second, Channel: flight.ArmCh, US: rc.MAX_RX_VALUE, Note: "arm"},
		{At: 3 * time.Second, Channel: flight.ModeCh, US: rc.MAX_RX_VALUE, Note: "hover mode"},
		{At: 4 * time.Second, Channel: flight.ThrottleCh, US: 1800, Note: "climb"},
		{At: 7 * time.Second, Channel: flight.ThrottleCh, US: rc.NEUTRAL_RX_VALUE, Note: "hold"},
	},
	Off: 12 * time.Second,
}
