//go:build tinygo

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/lsm6ds3tr"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
)

var errIMUNotConnected = errors.New("LSM6DS3TR not connected")

// imu reads the LSM6DS3TR on the periodic path and hands the sample to
// the event path. The sensor has no magnetometer.
type imu struct {
	dev     *lsm6ds3tr.Device
	enabled bool
	ready   bool
	errors  uint32

	rawGyro, rawAccel [3]int32
	gyro, accel       kernel.Vec3
}

func (i *imu) Init() error {
	i.dev = lsm6ds3tr.New(machine.I2C0)
	err := i.dev.Configure(lsm6ds3tr.Configuration{
		AccelRange:      lsm6ds3tr.ACCEL_8G,
		AccelSampleRate: lsm6ds3tr.ACCEL_SR_833,
		GyroRange:       lsm6ds3tr.GYRO_1000DPS,
		GyroSampleRate:  lsm6ds3tr.GYRO_SR_833,
	})
	if err != nil {
		return err
	}
	if !i.dev.Connected() {
		return errIMUNotConnected
	}
	println("LSM6DS3TR initialized.")
	return nil
}

func (i *imu) Periodic() {
	if !i.enabled {
		return
	}
	ax, ay, az, err := i.dev.ReadAcceleration()
	if err != nil {
		i.errors++
		return
	}
	gx, gy, gz, err := i.dev.ReadRotation()
	if err != nil {
		i.errors++
		return
	}
	i.rawAccel = [3]int32{ax, ay, az}
	i.rawGyro = [3]int32{gx, gy, gz}
	i.ready = true
}

func (i *imu) Event(onGyroAccel, onMag func()) {
	if i.ready {
		i.ready = false
		onGyroAccel()
	}
}

// Convert sensor values: the driver returns micro-dps for gyro and
// micro-g for accel.
func (i *imu) ScaleGyro() {
	i.gyro = kernel.Vec3{
		X: float64(i.rawGyro[0]) * flight.MicroDPSToRadS,
		Y: float64(i.rawGyro[1]) * flight.MicroDPSToRadS,
		Z: float64(i.rawGyro[2]) * flight.MicroDPSToRadS,
	}
}

func (i *imu) ScaleAccel() {
	i.accel = kernel.Vec3{
		X: float64(i.rawAccel[0]) * flight.MicroGToMS2,
		Y: float64(i.rawAccel[1]) * flight.MicroGToMS2,
		Z: float64(i.rawAccel[2]) * flight.MicroGToMS2,
	}
}

func (i *imu) ScaleMag() {}

func (i *imu) Gyro() kernel.Vec3  { return i.gyro }
func (i *imu) Accel() kernel.Vec3 { return i.accel }
func (i *imu) Mag() kernel.Vec3   { return kernel.Vec3{} }
