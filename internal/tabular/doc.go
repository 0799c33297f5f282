// Package tabular reads and writes the CSV tables the simulator exchanges
// with the outside world: prepared run inputs, ensemble summaries, and the
// raw climate, calendar, coefficient and survey tables a scenario build
// starts from.
//
// Layouts follow the files of the long-term field dataset the model was
// calibrated on, so prepared inputs and result summaries stay
// interchangeable with previously published runs. Readers validate headers
// up front and report data problems with the file row that caused them.
package tabular
