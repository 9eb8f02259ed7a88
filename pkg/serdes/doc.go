// Package serdes manages serializer and deserializer descriptors and their
// instantiation.
//
// A descriptor (SerDesInfo) names a class and points at an archive stored in
// the blob store. The Instantiator downloads the archive and asks a Loader to
// construct the class; the built-in FactoryLoader resolves class names against
// factories registered by the embedding application, optionally pinned to the
// archive's SHA-256 fingerprint.
//
// Instances are never cached. Each Create call hands back a fresh instance
// that the caller must Init before use and Close when done:
//
//	loader := serdes.NewFactoryLoader()
//	loader.Register("com.example.JSONSerializer", func() interface{} {
//		return &jsonSerializer{}
//	})
//
//	inst := serdes.NewInstantiator(blobs, loader, log)
//	ser, err := inst.CreateSerializer(ctx, info)
//	if err != nil {
//		return err
//	}
//	defer ser.Close()
//
//	if err := ser.Init(map[string]interface{}{"pretty": true}); err != nil {
//		return err
//	}
//	payload, err := ser.Serialize(record)
package serdes
