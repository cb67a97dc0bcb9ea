package relativity

// Physical constants, SI.
const (
	C            = 2.99792458e8     // speed of light [m/s]
	ElectronMass = 9.1093829140e-31 // electron rest mass [kg]
	Charge       = 1.6021765650e-19 // elementary charge [C]
	Epsilon0     = 8.8541878170e-12 // vacuum permittivity [F/m]
)

// RestEnergy is the electron rest energy m_e*c^2 [J].
const RestEnergy = ElectronMass * C * C
