// Package provider implements the capability contracts on top of concrete
// collaborators: in-memory simulations, TinyGo drivers buses, UART ports,
// host serial devices, periph.io GPIO lines and clocks.
package provider
