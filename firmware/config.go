//go:build tinygo

package main

import (
	"machine"
	"time"
)

// RotorFC Configuration
// All user-configurable parameters and hardware mappings

// --- Protocol Selection ---
const (
	PROTOCOL_CRSF = iota
	PROTOCOL_IBUS

	activeProtocol = PROTOCOL_CRSF // Set protocol: PROTOCOL_CRSF (also ELRS), PROTOCOL_IBUS
	RX_BAUD_RATE   = 420000        // CRSF rate; iBus runs at 115200
)

// --- Timing ---
const (
	TICK_HZ             = 512 // Base periodic rate
	ESC_PWM_FREQUENCY   = 400 // ESC frequency (Hz)
	BOOT_DELAY          = 2 * time.Second
	WATCHDOG_TIMEOUT_MS = 500
	TELEMETRY_DIVIDER   = 51 // Telemetry slot runs at TICK_HZ/10, print about once a second
)

// --- Hardware Mappings ---
var (
	ESC_PINS = [4]machine.Pin{machine.D0, machine.D1, machine.D2, machine.D3}
	LED_PIN  = machine.LED
)

// --- Hardware Interfaces ---
var (
	watchdog = machine.Watchdog
	pwm0     = machine.PWM0 // Motors 0 and 1
	pwm1     = machine.PWM1 // Motors 2 and 3
)
