// Package grpc provides gRPC server interceptors that decode, and optionally
// verify, the JWT carried in request metadata.
//
// # Basic Usage
//
//	interceptor, err := jwtgrpc.New(
//	    jwtgrpc.WithKey(jwks.SharedSecret("secret")),
//	    jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Handlers read the result with GetDecoded:
//
//	decoded, err := jwtgrpc.GetDecoded(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Unauthenticated, "no token")
//	}
//	fmt.Println(decoded.Payload["sub"], decoded.Signature)
//
// Errors are mapped to status codes by DefaultErrorHandler: missing tokens
// and bad signatures are Unauthenticated, malformed tokens and metadata are
// InvalidArgument, and key or algorithm problems are FailedPrecondition.
package grpc
