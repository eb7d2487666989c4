package intake

// Version is the release of the intake module.
const Version = "0.1.0"
