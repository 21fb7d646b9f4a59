package kernel

// Attitude and navigation estimation. The attitude state only moves
// forward: the first gyro/accel sample opens alignment and an aligner lock
// commits it. Nothing reaches the navigation estimator before that.

func (k *Kernel) handleGyroAccel() {
	s := &k.subs
	s.IMU.ScaleGyro()
	s.IMU.ScaleAccel()

	switch k.state.Attitude {
	case AttitudeUninitialized, AttitudeAligning:
		k.state.setAttitude(AttitudeAligning)
		s.Aligner.Run(s.IMU.Gyro(), s.IMU.Accel(), s.IMU.Mag())
		if s.Aligner.Status() == AlignerLocked {
			s.AHRS.Align()
			k.state.setAttitude(AttitudeRunning)
		}
	case AttitudeRunning:
		s.AHRS.Propagate(s.IMU.Gyro())
		s.AHRS.UpdateAccel(s.IMU.Accel())
		s.INS.Propagate(s.AHRS.Attitude(), s.IMU.Accel())
	}
}

func (k *Kernel) handleMag() {
	k.subs.IMU.ScaleMag()
	if k.state.Attitude == AttitudeRunning {
		k.subs.AHRS.UpdateMag(k.subs.IMU.Mag())
	}
}

func (k *Kernel) handleBaroAbsolute() {
	if k.state.Attitude == AttitudeRunning {
		k.subs.INS.UpdateBaro(k.subs.Baro.Pressure())
	}
}

// handleBaroDifferential is reserved for airspeed sensing.
func (k *Kernel) handleBaroDifferential() {}

func (k *Kernel) handleGPSFix() {
	if k.state.Attitude == AttitudeRunning {
		k.subs.INS.UpdateGPS(k.subs.GPS.Fix())
	}
}
