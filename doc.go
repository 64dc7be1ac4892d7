// Package pycaret is a low-code machine learning experimentation toolkit.
//
// An experiment.Session wraps a dataset, a metric registry and a
// cross-validation policy. Models trained through the session accumulate in
// its container; AutoML scans the container and returns the best model by a
// chosen metric, retrained on the full training split. Sessions also render
// analysis plots, persist model bundles locally or to cloud object storage,
// and record runs on an MLflow tracking server.
//
// A minimal classification experiment:
//
//	s, err := experiment.NewSession(experiment.Config{
//		UseCase: experiment.Classification,
//		Folds:   5,
//	}, data)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, _, err := s.CreateModelByID(ctx, "lr", nil); err != nil {
//		log.Fatal(err)
//	}
//
//	best, err := s.AutoML(ctx, experiment.AutoMLOptions{Optimize: "AUC"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := s.SaveModel(best, "churn"); err != nil {
//		log.Fatal(err)
//	}
package pycaret
