package damascout

// Version is the release of the damascout module and binary.
const Version = "0.3.1"
