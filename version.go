package minilang

// Version is the toolchain release reported by `minilang version`.
const Version = "0.3.0"
