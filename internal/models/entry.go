package models

// AddressEntry represents one input line: a display label and the text that
// should be geocoded. When the line carried an explicit "lat,lon" override,
// Override holds it and no geocoding is performed.
type AddressEntry struct {
	Label    string       // Label is the original address text, used in the output.
	Target   string       // Target is the text submitted to geocoding.
	Override *Coordinates // Override is set when the line supplied coordinates directly.
}

// LinkRecord pairs an address label with its generated map link.
type LinkRecord struct {
	Address string
	Link    string
}
