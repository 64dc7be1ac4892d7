package model

// ExtractParams returns the hyperparameters of an estimator using a fixed
// probing order: AllParameterGetter first, then ParameterGetter, then an
// empty map. The order mirrors the preference for the richest parameter set
// when logging runs to an experiment tracker.
func ExtractParams(est Estimator) map[string]interface{} {
	if g, ok := est.(AllParameterGetter); ok {
		if params := g.GetAllParams(); params != nil {
			return params
		}
	}
	if g, ok := est.(ParameterGetter); ok {
		if params := g.GetParams(); params != nil {
			return params
		}
	}
	return map[string]interface{}{}
}
