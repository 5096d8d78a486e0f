// Package constants holds physical constants in SI units.
package constants

const (
	// G is the Newtonian gravitational constant [m³/(kg·s²)].
	G = 6.67430e-11

	// AU is the astronomical unit [m].
	AU = 1.495978707e11

	// Day is the number of seconds per day.
	Day = 86400.0
)

// Reference body masses [kg].
const (
	MassSun   = 1.98892e30
	MassEarth = 5.97217e24
	MassMoon  = 7.342e22
	MassMars  = 6.4171e23
)

// Standard gravitational parameters mu = G*M [m³/s²].
const (
	MuSun   = G * MassSun
	MuEarth = G * MassEarth
)
