// Package latentgo explores the latent space of pretrained generative
// image models.
//
// Two pipelines are provided:
//
//   - Interpolation: trace a constant-norm path between two latent
//     vectors on a hypersphere and render the generated images as an
//     animated sequence.
//   - Inversion: given a target image, run gradient descent on a
//     latent vector until the generated image matches the target.
//
// # Quick Start
//
// Fetch a pretrained model from a hub and interpolate:
//
//	client := hub.NewClient(blobstore.NewLocalStore("./models"))
//	ex, _ := latentgo.OpenModel(ctx, client, "progan-128")
//	defer ex.Close()
//
//	ip, _ := ex.InterpolateRandom(ctx, latentgo.DefaultInterpolateOptions())
//	_ = ip.SaveGIF("animation.gif")
//
// Invert a target image back into latent space:
//
//	target, _ := latentgo.ModelSource{Explorer: ex, Seed: 4}.TargetImage(ctx)
//	inv, _ := ex.FindClosestLatent(ctx, target, latentgo.DefaultInvertOptions())
//	fmt.Println(inv.FinalLoss())
//
// # Generators
//
// The pipelines only see the narrow generator.Generator interface, so
// any vector-to-image model can back them. Models with analytic
// gradients implement generator.Differentiable; opaque models are
// adapted with finite differences automatically.
//
// # Key Features
//
//   - Constant-norm hypersphere interpolation paths
//   - Adam-based latent inversion with norm regularization
//   - Model hub with local, in-memory, S3 and MinIO backends
//   - Self-describing weight artifacts (gzip/lz4 compressed)
//   - GIF animation and captioned contact-sheet rendering
package latentgo
