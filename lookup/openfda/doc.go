// Package openfda implements lookup.LabelSource against the openFDA drug
// label endpoint (https://open.fda.gov/apis/drug/label/).
//
// A lookup asks for the single best label whose openfda.brand_name matches
// the medicine name and returns the first entry of its
// indications_and_usage section. Labels without that section resolve to
// extract.NoEffectFound rather than an error.
package openfda
