package sitl

import (
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
)

// Config sets the simulated sensor rates.
type Config struct {
	TickHz       float64
	IMUHz        float64
	MagDivider   int // one mag sample every MagDivider IMU samples
	GPSHz        float64
	GPSLostAfter time.Duration
	Vehicle      VehicleParams
}

func DefaultConfig() Config {
	return Config{
		TickHz:       512,
		IMUHz:        512,
		MagDivider:   10,
		GPSHz:        5,
		GPSLostAfter: time.Second,
		Vehicle:      DefaultVehicleParams(),
	}
}

// Sim owns the vehicle and the sensors it feeds. It advances only when the
// actuators are set, so simulated time follows the periodic dispatcher.
// Sensors latch samples only after the platform enables events.
type Sim struct {
	cfg     Config
	vehicle *Vehicle
	now     float64 // seconds
	events  bool

	IMU  *IMU
	Baro *Baro
	GPS  *GPS

	imuDue, gpsDue float64
	imuCount       int
}

func New(cfg Config) *Sim {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 512
	}
	if cfg.IMUHz <= 0 {
		cfg.IMUHz = cfg.TickHz
	}
	if cfg.MagDivider <= 0 {
		cfg.MagDivider = 1
	}
	s := &Sim{cfg: cfg, vehicle: NewVehicle(cfg.Vehicle)}
	s.IMU = &IMU{}
	s.Baro = &Baro{}
	s.GPS = &GPS{lostAfter: cfg.GPSLostAfter.Seconds(), sim: s}
	return s
}

func (s *Sim) Vehicle() *Vehicle { return s.vehicle }

// Time is simulated seconds since start.
func (s *Sim) Time() float64 { return s.now }

// Dt is the simulated step per base tick.
func (s *Sim) Dt() float64 { return 1 / s.cfg.TickHz }

// EnableEvents starts sensor latching.
func (s *Sim) EnableEvents() { s.events = true }

// Advance steps the vehicle by dt seconds and latches due sensor samples.
func (s *Sim) Advance(dt float64, pulses flight.Pulses) {
	s.vehicle.Step(dt, pulses)
	s.now += dt
	if !s.events {
		return
	}

	if s.now+1e-9 >= s.imuDue {
		s.imuDue = s.now + 1/s.cfg.IMUHz
		s.imuCount++
		s.IMU.latchGyroAccel(s.vehicle.Attitude.Rates, s.vehicle.SpecificForce())
		if s.imuCount%s.cfg.MagDivider == 0 {
			s.IMU.latchMag(s.vehicle.MagField())
		}
	}
	s.Baro.latch(flight.AltitudePressure(s.vehicle.Altitude()))
	if s.cfg.GPSHz > 0 && s.now+1e-9 >= s.gpsDue {
		s.gpsDue = s.now + 1/s.cfg.GPSHz
		s.GPS.latch(s.vehicle.Position, s.vehicle.Velocity)
	}
}
