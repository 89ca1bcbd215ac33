package sensor

import "encoding/json"

// Document is the raw snapshot returned by a WTEC gateway endpoint.
// Any field can be missing at any depth; absence is not an error.
type Document struct {
	SensorStats Stats `json:"sensorStats"`
}

type Stats struct {
	Motion             *Stat `json:"motion"`
	Power              *Stat `json:"power"`
	CeilingTemperature *Stat `json:"ceilingTemperature"`
	RoomTemperature    *Stat `json:"roomTemperature"`
	Illuminance        *Stat `json:"illuminance"`
	Brightness         *Stat `json:"brightness"`
	Humidity           *Stat `json:"humidity"`
	Pressure           *Stat `json:"pressure"`
	IndoorAirQuality   *Stat `json:"indoorAirQuality"`
	CO2                *Stat `json:"co2"`
	VOC                *Stat `json:"voc"`
}

// Stat holds the instant value as raw JSON so readings pass through
// to Tandem untouched, whatever their native type.
type Stat struct {
	Instant json.RawMessage `json:"instant"`
}

// MotionInstant returns the raw motion reading and whether the
// document contained one. An explicit JSON null counts as absent.
func (d Document) MotionInstant() (json.RawMessage, bool) {
	m := d.SensorStats.Motion
	if m == nil || len(m.Instant) == 0 || string(m.Instant) == "null" {
		return nil, false
	}
	return m.Instant, true
}

// Reading is the flat payload pushed to Tandem. Every key is always
// present; fields missing from the source document marshal as null.
type Reading struct {
	Motion             int             `json:"motion"`
	Power              json.RawMessage `json:"power"`
	CeilingTemperature json.RawMessage `json:"ceilingTemperature"`
	RoomTemperature    json.RawMessage `json:"roomTemperature"`
	Illuminance        json.RawMessage `json:"illuminance"`
	Brightness         json.RawMessage `json:"brightness"`
	Humidity           json.RawMessage `json:"humidity"`
	Pressure           json.RawMessage `json:"pressure"`
	IndoorAirQuality   json.RawMessage `json:"indoorAirQuality"`
	CO2                json.RawMessage `json:"co2"`
	VOC                json.RawMessage `json:"voc"`
}

// Normalize projects a document onto the outbound schema. It never
// fails: a field missing at any depth degrades to null for that key
// only.
func Normalize(doc Document, motionFlag int) Reading {
	stats := doc.SensorStats
	return Reading{
		Motion:             motionFlag,
		Power:              instant(stats.Power),
		CeilingTemperature: instant(stats.CeilingTemperature),
		RoomTemperature:    instant(stats.RoomTemperature),
		Illuminance:        instant(stats.Illuminance),
		Brightness:         instant(stats.Brightness),
		Humidity:           instant(stats.Humidity),
		Pressure:           instant(stats.Pressure),
		IndoorAirQuality:   instant(stats.IndoorAirQuality),
		CO2:                instant(stats.CO2),
		VOC:                instant(stats.VOC),
	}
}

func instant(s *Stat) json.RawMessage {
	if s == nil {
		return nil
	}
	return s.Instant
}
