// Package predict calls the hosted ferry delay model.
//
// The model is a regression served over HTTP: it accepts a JSON array of
// feature records and answers {"predict": [minutes, ...]}. Input describes one
// record; InputFromVessel fills the vessel features from a vesselverbose row.
package predict
