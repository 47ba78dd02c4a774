package requests

import "github.com/vocdoni/zkgate/types"

// Error codes of the request controller contract.
var (
	ErrNotAuthorized             = types.NewError(2000, types.KindAuthorization, "caller is not the admin")
	ErrRequestNotFound           = types.NewError(2001, types.KindNotFound, "request not found")
	ErrInvalidStatusTransition   = types.NewError(2002, types.KindLifecycle, "invalid status transition")
	ErrRequestExpired            = types.NewError(2003, types.KindLifecycle, "request expired")
	ErrRequestNotExpired         = types.NewError(2004, types.KindLifecycle, "request not expired")
	ErrMaxRequestsReached        = types.NewError(2005, types.KindCapacity, "maximum number of requests reached")
	ErrInvalidCommitment         = types.NewError(2006, types.KindValidation, "invalid commitment")
	ErrInvalidNullifier          = types.NewError(2007, types.KindValidation, "invalid nullifier hash")
	ErrInvalidProofHash          = types.NewError(2008, types.KindValidation, "invalid proof hash")
	ErrInvalidMetadataHash       = types.NewError(2009, types.KindValidation, "invalid metadata hash")
	ErrInvalidRequestType        = types.NewError(2010, types.KindValidation, "invalid request type")
	ErrReplayAttack              = types.NewError(2011, types.KindConflict, "nullifier or commitment already in use")
	ErrProofVerifierNotSet       = types.NewError(2012, types.KindNotFound, "proof verifier not set")
	ErrProofVerifierCallFailed   = types.NewError(2013, types.KindExternal, "proof verifier call failed")
	ErrVerificationFailed        = types.NewError(2014, types.KindExternal, "proof verification failed")
	ErrIdentityManagerNotSet     = types.NewError(2015, types.KindNotFound, "identity manager not set")
	ErrProofVerifierAlreadySet   = types.NewError(2016, types.KindConflict, "proof verifier already set")
	ErrIdentityManagerAlreadySet = types.NewError(2017, types.KindConflict, "identity manager already set")
	ErrInvalidNotes              = types.NewError(2018, types.KindValidation, "invalid verifier notes")
	ErrInvalidPublicSignals      = types.NewError(2019, types.KindValidation, "invalid public signals")
)
