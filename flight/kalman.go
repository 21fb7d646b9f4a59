package flight

// Kalman is a two-state tilt filter.
// State X: [pitch, roll], predicted from body rates and corrected by the
// tilt the accelerometer sees.
type Kalman struct {
	X Vec2

	P Mat2 // estimate error covariance
	Q Mat2 // process noise, small: the gyro is trusted short term
	R Mat2 // measurement noise, large: the accelerometer is noisy
	H Mat2 // pitch and roll are observed directly
}

func NewKalman() *Kalman {
	return &Kalman{
		P: Identity2(),
		Q: Diag2(0.01, 0.01),
		R: Diag2(0.5, 0.5),
		H: Identity2(),
	}
}

// Reset sets the state and restarts the covariance.
func (kf *Kalman) Reset(pitch, roll float64) {
	kf.X = Vec2{pitch, roll}
	kf.P = Identity2()
}

// Predict integrates body rates over dt seconds. The transition is identity
// so the covariance only grows by Q.
func (kf *Kalman) Predict(gyroX, gyroY, dt float64) {
	kf.X = kf.X.Add(Vec2{gyroY * dt, gyroX * dt})
	kf.P = kf.P.Add(kf.Q)
}

// Update corrects the state with accelerometer tilt.
func (kf *Kalman) Update(accelPitch, accelRoll float64) {
	y := Vec2{accelPitch, accelRoll}.Sub(kf.H.MulVec(kf.X))

	hT := kf.H.T()
	s := kf.H.Mul(kf.P).Mul(hT).Add(kf.R)
	sInv, ok := s.Inv()
	if !ok {
		return
	}
	k := kf.P.Mul(hT).Mul(sInv)

	kf.X = kf.X.Add(k.MulVec(y))
	kf.P = Identity2().Sub(k.Mul(kf.H)).Mul(kf.P)
}
