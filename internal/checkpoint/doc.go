// Package checkpoint provides the native .affine format for saving and
// loading model state dictionaries.
//
// The .affine format is a small binary container designed for affine models:
//
//	Format Structure:
//	  [64-byte fixed header]
//	    0x00  Magic "AFFN" (4 bytes)
//	    0x04  Format version (uint32 LE)
//	    0x08  JSON header size (uint64 LE)
//	    0x10  Tensor data size (uint64 LE)
//	    0x18  SHA-256 checksum of tensor data (32 bytes)
//	    0x38  Reserved (8 bytes, zero)
//	  [JSON header: model type, tensor metadata, training metadata]
//	  [Padding to 64-byte boundary]
//	  [Tensor data: raw bytes in header order]
//
// The checksum is always written and always verified on open; a flipped bit
// in the data section fails loudly instead of producing a silently wrong
// model.
//
// Example usage:
//
//	// Save
//	writer, err := checkpoint.NewWriter("model.affine")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer writer.Close()
//	if err := writer.WriteStateDict(model.StateDict(), "Linear", nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load
//	reader, err := checkpoint.NewReader("model.affine")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//	stateDict, err := reader.ReadStateDict(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := model.LoadStateDict(stateDict); err != nil {
//	    log.Fatal(err)
//	}
package checkpoint
